package repository

import (
	"context"

	"carniceria/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clauseAssociations skips association upserts on Create/Save.
const clauseAssociations = "Associations"

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Omit(clauseAssociations).Create(c).Error
}

func (r *categoryRepo) List(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error
	return list, err
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("lower(name) = lower(?)", name).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Omit(clauseAssociations).Save(c).Error
}

// Delete removes the category; the FK policies null product references and drop its cuts.
func (r *categoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Category{}, "id = ?", id).Error
}
