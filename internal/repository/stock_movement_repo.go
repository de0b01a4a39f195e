package repository

import (
	"context"

	"carniceria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementFilter defines filters for listing stock movements.
type StockMovementFilter struct {
	ProductID *uuid.UUID
	Kind      string
	Page      int
	Limit     int
}

type StockMovementRepository interface {
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Omit(clauseAssociations).Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter StockMovementFilter) ([]model.StockMovement, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovement{})
	if filter.ProductID != nil {
		q = q.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var movements []model.StockMovement
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movements).Error
	return movements, total, err
}
