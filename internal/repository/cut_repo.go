package repository

import (
	"context"

	"carniceria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CutRepository interface {
	Create(ctx context.Context, c *model.Cut) error
	List(ctx context.Context, categoryID *uuid.UUID) ([]model.Cut, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cut, error)
	FindByName(ctx context.Context, name string) (*model.Cut, error)
	Update(ctx context.Context, c *model.Cut) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cutRepo struct{ db *gorm.DB }

func NewCutRepository(db *gorm.DB) CutRepository { return &cutRepo{db: db} }

func (r *cutRepo) Create(ctx context.Context, c *model.Cut) error {
	return r.db.WithContext(ctx).Omit(clauseAssociations).Create(c).Error
}

func (r *cutRepo) List(ctx context.Context, categoryID *uuid.UUID) ([]model.Cut, error) {
	var list []model.Cut
	q := r.db.WithContext(ctx).Order("name asc")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *cutRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cut, error) {
	var c model.Cut
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cutRepo) FindByName(ctx context.Context, name string) (*model.Cut, error) {
	var c model.Cut
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cutRepo) Update(ctx context.Context, c *model.Cut) error {
	return r.db.WithContext(ctx).Omit(clauseAssociations).Save(c).Error
}

func (r *cutRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Cut{}, "id = ?", id).Error
}
