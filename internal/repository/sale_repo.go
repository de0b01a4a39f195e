package repository

import (
	"context"

	"carniceria/internal/dto"
	"carniceria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	CreateTx(tx *gorm.DB, s *model.Sale) error
	CreateItemTx(tx *gorm.DB, item *model.SaleItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error)
	CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

// CreateTx inserts the sale header only; items are inserted one by one with CreateItemTx.
func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Omit(clauseAssociations).Create(s).Error
}

func (r *saleRepo) CreateItemTx(tx *gorm.DB, item *model.SaleItem) error {
	return tx.Omit(clauseAssociations).Create(item).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&s, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) List(ctx context.Context, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{})
	if filter.Date != "" {
		q = q.Where("DATE(created_at) = ?", filter.Date)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Customer").Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) CountItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.SaleItem{}).Where("product_id = ?", productID).Count(&n).Error
	return n, err
}
