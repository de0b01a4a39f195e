package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Quantity decimal.Decimal `validate:"gt=0"`
}

type order struct {
	Method string `validate:"required,oneof=efectivo tarjeta"`
	Lines  []line `validate:"required,min=1,dive"`
}

func TestStruct_Valid(t *testing.T) {
	fields, err := Struct(order{Method: "efectivo", Lines: []line{{Quantity: decimal.RequireFromString("0.250")}}})
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestStruct_ReportsNestedDecimalField(t *testing.T) {
	fields, err := Struct(order{Method: "cheque", Lines: []line{{Quantity: decimal.Zero}}})
	require.NoError(t, err)
	assert.Equal(t, "oneof", fields["Method"])
	assert.Equal(t, "gt", fields["Lines[0].Quantity"])
}

func TestStruct_EmptySlice(t *testing.T) {
	fields, err := Struct(order{Method: "tarjeta"})
	require.NoError(t, err)
	assert.Equal(t, "required", fields["Lines"])
}

type priced struct {
	Quantity decimal.Decimal  `validate:"gt=0,decimals=3"`
	Price    *decimal.Decimal `validate:"required,min=0,decimals=2"`
}

func TestStruct_Decimals(t *testing.T) {
	price := decimal.RequireFromString("1500.50")
	fields, err := Struct(priced{Quantity: decimal.RequireFromString("0.750"), Price: &price})
	require.NoError(t, err)
	assert.Nil(t, fields)

	// Trailing zeros beyond the limit are fine; significant digits are not.
	price = decimal.RequireFromString("10.500")
	fields, err = Struct(priced{Quantity: decimal.RequireFromString("0.0004"), Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "decimals", fields["Quantity"])
	assert.NotContains(t, fields, "Price")

	price = decimal.RequireFromString("0.001")
	fields, err = Struct(priced{Quantity: decimal.NewFromInt(1), Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "decimals", fields["Price"])
}

func TestStruct_RequiredPointerDecimal(t *testing.T) {
	fields, err := Struct(priced{Quantity: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "required", fields["Price"])

	zero := decimal.Zero
	fields, err = Struct(priced{Quantity: decimal.NewFromInt(1), Price: &zero})
	require.NoError(t, err)
	assert.Nil(t, fields)
}
