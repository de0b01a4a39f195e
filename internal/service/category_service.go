package service

import (
	"context"
	"errors"
	"strings"

	"carniceria/internal/dto"
	"carniceria/internal/model"
	"carniceria/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c model.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
	}
}

func (s *categoryService) Create(ctx context.Context, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := validateRequest(req); err != nil {
		return dto.CategoryResponse{}, err
	}
	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, uuid.Nil); err != nil {
		return dto.CategoryResponse{}, err
	}

	c := &model.Category{Name: name, Description: req.Description}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoryResponse{}, transient("crear categoría", err)
	}
	return mapCategory(*c), nil
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, transient("listar categorías", err)
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCategory(c))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (dto.CategoryResponse, error) {
	if err := validateRequest(req); err != nil {
		return dto.CategoryResponse{}, err
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CategoryResponse{}, &NotFoundError{Entity: "Categoría"}
		}
		return dto.CategoryResponse{}, transient("actualizar categoría", err)
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureUniqueName(ctx, name, id); err != nil {
		return dto.CategoryResponse{}, err
	}
	c.Name = name
	c.Description = req.Description
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoryResponse{}, transient("actualizar categoría", err)
	}
	return mapCategory(*c), nil
}

// Delete removes the category. Its cuts go with it and products keep existing
// without a category.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Categoría"}
		}
		return transient("eliminar categoría", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return transient("eliminar categoría", err)
	}
	return nil
}

func (s *categoryService) ensureUniqueName(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return transient("buscar categoría", err)
	}
	if existing != nil && existing.ID != self {
		return &ConflictError{Message: "ya existe una categoría con ese nombre"}
	}
	return nil
}
