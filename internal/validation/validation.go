// Package validation holds the shared go-playground validator used by both the
// HTTP layer and the services, so a request is judged by the same rules no
// matter which door it comes through.
package validation

import (
	"errors"
	"reflect"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// decimals=N limits a decimal.Decimal (or *decimal.Decimal) to N fractional digits.
	if err := validate.RegisterValidation("decimals", maxDecimals); err != nil {
		panic(err)
	}
}

// maxDecimals reads the field back from its parent struct: the custom type
// func above hands validators a float64, which cannot tell 0.0004 from 0.000.
func maxDecimals(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	parent := fl.Parent()
	if parent.Kind() == reflect.Ptr {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return true
	}
	field := parent.FieldByName(fl.StructFieldName())
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	d, ok := field.Interface().(decimal.Decimal)
	if !ok {
		return true
	}
	return d.Equal(d.Truncate(int32(places)))
}

// Struct validates v and returns the failing fields keyed by their namespace
// (e.g. "Items[0].Quantity") mapped to the failed tag. A nil map means v is valid.
func Struct(v interface{}) (map[string]string, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[trimRoot(fe.Namespace())] = fe.Tag()
	}
	return fields, nil
}

// trimRoot drops the leading struct name from a validator namespace.
func trimRoot(ns string) string {
	for i := 0; i < len(ns); i++ {
		if ns[i] == '.' {
			return ns[i+1:]
		}
	}
	return ns
}
