package service

import (
	"context"
	"time"

	"carniceria/internal/dto"
	"carniceria/internal/model"
	"carniceria/internal/repository"

	"github.com/google/uuid"
)

// StockService exposes the read side of inventory: products running low and
// the movement ledger.
type StockService interface {
	ListLow(ctx context.Context) ([]dto.LowStockResponse, error)
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type stockService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewStockService(products repository.ProductRepository, movements repository.StockMovementRepository) StockService {
	return &stockService{products: products, movements: movements}
}

func (s *stockService) ListLow(ctx context.Context) ([]dto.LowStockResponse, error) {
	products, err := s.products.ListLowStock(ctx, model.LowStockThreshold)
	if err != nil {
		return nil, transient("listar stock bajo", err)
	}
	out := make([]dto.LowStockResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.LowStockResponse{ProductID: p.ID.String(), Name: p.Name, Stock: p.Stock})
	}
	return out, nil
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 500 {
		filter.Limit = 100
	}

	repoFilter := repository.StockMovementFilter{Kind: filter.Kind, Page: filter.Page, Limit: filter.Limit}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{"product_id": "uuid"}}
		}
		repoFilter.ProductID = &pid
	}

	movements, total, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, transient("listar movimientos", err)
	}
	data := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		r := dto.StockMovementResponse{
			ID:            m.ID.String(),
			ProductID:     m.ProductID.String(),
			Kind:          m.Kind,
			Quantity:      m.Quantity,
			PreviousStock: m.PreviousStock,
			NewStock:      m.NewStock,
			Reason:        m.Reason,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.ReferenceID != nil {
			ref := m.ReferenceID.String()
			r.ReferenceID = &ref
		}
		data = append(data, r)
	}
	return &dto.StockMovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}
