package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"carniceria/internal/dto"
	"carniceria/internal/event"
	"carniceria/internal/model"
	"carniceria/internal/repository"
	"carniceria/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for products.
type ProductService interface {
	Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	tx         repository.Transactor
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cuts       repository.CutRepository
	sales      repository.SaleRepository
	movements  repository.StockMovementRepository
	events     event.Publisher
}

func NewProductService(
	tx repository.Transactor,
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	cuts repository.CutRepository,
	sales repository.SaleRepository,
	movements repository.StockMovementRepository,
	events event.Publisher,
) ProductService {
	return &productService{
		tx:         tx,
		repo:       repo,
		categories: categories,
		cuts:       cuts,
		sales:      sales,
		movements:  movements,
		events:     events,
	}
}

var hundred = decimal.NewFromInt(100)

// applyProductRules enforces the write-time invariants:
// zero stock deactivates, and the offer price is derived from the discount.
func applyProductRules(p *model.Product) {
	if !p.Stock.IsPositive() {
		p.IsActive = false
	}
	if p.IsOffer && p.Discount != nil && p.Discount.IsPositive() {
		offer := p.Price.Sub(p.Price.Mul(p.Discount.Div(hundred))).Round(2)
		p.OfferPrice = &offer
		return
	}
	p.OfferPrice = nil
	p.Discount = nil
}

func (s *productService) Create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	p := &model.Product{IsActive: true}
	if err := s.fill(ctx, p, req); err != nil {
		return nil, passDomain("crear producto", err)
	}
	applyProductRules(p)

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, transient("crear producto", err)
	}
	log.Info().Str("product_id", p.ID.String()).Str("name", p.Name).Msg("product created")
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Producto"}
		}
		return nil, transient("obtener producto", err)
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, transient("listar productos", err)
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// Update replaces the product's fields. A stock change is recorded as an
// adjustment movement and published once the transaction has committed.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.ProductRequest) (*dto.ProductResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var (
		updated  *model.Product
		previous decimal.Decimal
	)
	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := s.repo.FindByIDForUpdateTx(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: "Producto"}
			}
			return err
		}
		previous = p.Stock

		if err := s.fill(ctx, p, req); err != nil {
			return err
		}
		applyProductRules(p)
		if err := s.repo.UpdateTx(tx, p); err != nil {
			return fmt.Errorf("actualizar producto: %w", err)
		}

		if !previous.Equal(p.Stock) {
			mov := &model.StockMovement{
				ProductID:     p.ID,
				Kind:          model.MovementAdjustment,
				Quantity:      p.Stock.Sub(previous),
				PreviousStock: previous,
				NewStock:      p.Stock,
				Reason:        "Actualización de producto",
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return fmt.Errorf("registrar ajuste: %w", err)
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, passDomain("actualizar producto", err)
	}

	if s.events != nil && !previous.Equal(updated.Stock) {
		s.events.PublishStockChanged(event.StockChanged{
			ProductID:     updated.ID,
			ProductName:   updated.Name,
			PreviousStock: previous,
			NewStock:      updated.Stock,
		})
	}
	return productToResponse(updated), nil
}

// Delete refuses to remove a product that appears in recorded sales.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.sales.CountItemsByProduct(ctx, id)
	if err != nil {
		return transient("eliminar producto", err)
	}
	if n > 0 {
		return &ConflictError{Message: "El producto tiene ventas registradas y no puede eliminarse"}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "Producto"}
		}
		return transient("eliminar producto", err)
	}
	return nil
}

// fill copies the request onto p, checking that category and cut exist.
func (s *productService) fill(ctx context.Context, p *model.Product, req dto.ProductRequest) error {
	p.Name = req.Name
	p.Description = req.Description
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	p.IsOffer = req.IsOffer
	p.Stock = req.Stock
	p.Price = req.Price
	p.Discount = req.Discount
	p.Image = req.Image
	p.ImageAlt = req.ImageAlt

	p.CategoryID = nil
	if req.CategoryID != nil && *req.CategoryID != "" {
		cid := uuid.MustParse(*req.CategoryID)
		if _, err := s.categories.FindByID(ctx, cid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Categoría", cid)
			}
			return err
		}
		p.CategoryID = &cid
	}

	p.CutID = nil
	if req.CutID != nil && *req.CutID != "" {
		cutID := uuid.MustParse(*req.CutID)
		if _, err := s.cuts.FindByID(ctx, cutID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("Corte", cutID)
			}
			return err
		}
		p.CutID = &cutID
	}
	return nil
}

// validateRequest runs the shared validator and converts failures to a ValidationError.
func validateRequest(req interface{}) error {
	fields, err := validation.Struct(req)
	if err != nil {
		return err
	}
	if fields != nil {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		IsOffer:     p.IsOffer,
		Stock:       p.Stock,
		Price:       p.Price,
		Discount:    p.Discount,
		OfferPrice:  p.OfferPrice,
		Image:       p.Image,
		ImageAlt:    p.ImageAlt,
	}
	if p.CategoryID != nil {
		s := p.CategoryID.String()
		resp.CategoryID = &s
	}
	if p.CutID != nil {
		s := p.CutID.String()
		resp.CutID = &s
	}
	return resp
}
