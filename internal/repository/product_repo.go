package repository

import (
	"context"
	"errors"

	"carniceria/internal/dto"
	"carniceria/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInsufficientStock is returned by DecrementStockTx when the row exists but
// holds less stock than requested. Nothing is written in that case.
var ErrInsufficientStock = errors.New("insufficient stock")

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]model.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdateTx(tx *gorm.DB, p *model.Product) error

	// DecrementStockTx atomically subtracts qty from the product's stock only if
	// enough is available, deactivating the product when it reaches zero.
	// Returns the product as it is after the decrement, gorm.ErrRecordNotFound
	// when the product does not exist, or ErrInsufficientStock.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) (*model.Product, error)
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})

	switch filter.Active {
	case "true":
		q = q.Where("is_active = true")
	case "false":
		q = q.Where("is_active = false")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.CutID != "" {
		q = q.Where("cut_id = ?", filter.CutID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold decimal.Decimal) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdateTx(tx *gorm.DB, p *model.Product) error {
	return tx.Omit(clauseAssociations).Save(p).Error
}

// DecrementStockTx is a single conditional UPDATE: under READ COMMITTED a
// concurrent writer on the same row blocks until we commit and then re-checks
// the WHERE clause against the new value, so stock can never go negative.
func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) (*model.Product, error) {
	var p model.Product
	res := tx.Model(&p).
		Clauses(clause.Returning{}).
		Where("id = ? AND stock >= ?", id, qty).
		UpdateColumns(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", qty),
			"is_active":  gorm.Expr("CASE WHEN stock - ? <= 0 THEN false ELSE is_active END", qty),
			"updated_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &p, nil
	}

	// Nothing matched: tell a missing product apart from a short one.
	var exists int64
	if err := tx.Model(&model.Product{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return nil, ErrInsufficientStock
}
