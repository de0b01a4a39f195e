package service

import (
	"context"
	"testing"

	"carniceria/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_UniqueNameIgnoresCase(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo())
	ctx := context.Background()

	res, err := svc.Create(ctx, dto.CategoryRequest{Name: "Res"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, dto.CategoryRequest{Name: "  res "})
	var ce *ConflictError
	require.ErrorAs(t, err, &ce)

	// Renaming a category to its own name is fine.
	_, err = svc.Update(ctx, uuid.MustParse(res.ID), dto.CategoryRequest{Name: "RES"})
	require.NoError(t, err)
}

func TestCategoryService_DeleteMissing(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo())
	err := svc.Delete(context.Background(), uuid.New())
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCutService_RequiresExistingCategory(t *testing.T) {
	categories := newStubCategoryRepo()
	catSvc := NewCategoryService(categories)
	cutSvc := NewCutService(newStubCutRepo(), categories)
	ctx := context.Background()

	_, err := cutSvc.Create(ctx, dto.CutRequest{Name: "Lomo", CategoryID: uuid.NewString()})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)

	cat, err := catSvc.Create(ctx, dto.CategoryRequest{Name: "Res"})
	require.NoError(t, err)
	cut, err := cutSvc.Create(ctx, dto.CutRequest{Name: "Lomo", CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, cat.ID, cut.CategoryID)

	_, err = cutSvc.Create(ctx, dto.CutRequest{Name: "lomo", CategoryID: cat.ID})
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)

	catID := uuid.MustParse(cat.ID)
	list, err := cutSvc.List(ctx, &catID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCutService_Validation(t *testing.T) {
	cutSvc := NewCutService(newStubCutRepo(), newStubCategoryRepo())
	_, err := cutSvc.Create(context.Background(), dto.CutRequest{Name: "Lomo", CategoryID: "not-a-uuid"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "uuid", ve.Fields["CategoryID"])
}

func TestStockService_ListMovements(t *testing.T) {
	f := buildProductSvc()
	id := f.store.seedProduct("Asado", 10)
	_, err := f.svc.Update(context.Background(), id, dto.ProductRequest{Name: "Asado", Stock: dec("12"), Price: dec("1000")})
	require.NoError(t, err)

	svc := NewStockService(stubProductRepo{f.store}, stubMovementRepo{f.store})
	resp, err := svc.ListMovements(context.Background(), dto.StockMovementFilter{ProductID: id.String()})
	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.True(t, resp.Data[0].Quantity.Equal(dec("2")))
	assert.Equal(t, 100, resp.Limit)

	_, err = svc.ListMovements(context.Background(), dto.StockMovementFilter{ProductID: "nope"})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestStockService_ListLow(t *testing.T) {
	store := newMemStore()
	store.seedProduct("Cinco", 5)
	store.seedProduct("Seis", 6)
	svc := NewStockService(stubProductRepo{store}, stubMovementRepo{store})

	low, err := svc.ListLow(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Cinco", low[0].Name)
}
