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

type CutService interface {
	Create(ctx context.Context, req dto.CutRequest) (dto.CutResponse, error)
	List(ctx context.Context, categoryID *uuid.UUID) ([]dto.CutResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CutRequest) (dto.CutResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type cutService struct {
	repo       repository.CutRepository
	categories repository.CategoryRepository
}

func NewCutService(repo repository.CutRepository, categories repository.CategoryRepository) CutService {
	return &cutService{repo: repo, categories: categories}
}

func mapCut(c model.Cut) dto.CutResponse {
	return dto.CutResponse{ID: c.ID.String(), Name: c.Name, CategoryID: c.CategoryID.String()}
}

func (s *cutService) Create(ctx context.Context, req dto.CutRequest) (dto.CutResponse, error) {
	c := &model.Cut{}
	if err := s.apply(ctx, c, req, uuid.Nil); err != nil {
		return dto.CutResponse{}, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CutResponse{}, transient("crear corte", err)
	}
	return mapCut(*c), nil
}

func (s *cutService) List(ctx context.Context, categoryID *uuid.UUID) ([]dto.CutResponse, error) {
	list, err := s.repo.List(ctx, categoryID)
	if err != nil {
		return nil, transient("listar cortes", err)
	}
	out := make([]dto.CutResponse, 0, len(list))
	for _, c := range list {
		out = append(out, mapCut(c))
	}
	return out, nil
}

func (s *cutService) Update(ctx context.Context, id uuid.UUID, req dto.CutRequest) (dto.CutResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CutResponse{}, &NotFoundError{Entity: "Corte"}
		}
		return dto.CutResponse{}, transient("actualizar corte", err)
	}
	if err := s.apply(ctx, c, req, id); err != nil {
		return dto.CutResponse{}, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CutResponse{}, transient("actualizar corte", err)
	}
	return mapCut(*c), nil
}

func (s *cutService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Corte"}
		}
		return transient("eliminar corte", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return transient("eliminar corte", err)
	}
	return nil
}

// apply validates req against current state and copies it onto c.
func (s *cutService) apply(ctx context.Context, c *model.Cut, req dto.CutRequest, self uuid.UUID) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)

	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return transient("buscar corte", err)
	}
	if existing != nil && existing.ID != self {
		return &ConflictError{Message: "ya existe un corte con ese nombre"}
	}

	categoryID := uuid.MustParse(req.CategoryID)
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Categoría", categoryID)
		}
		return transient("buscar categoría", err)
	}

	c.Name = name
	c.CategoryID = categoryID
	return nil
}
