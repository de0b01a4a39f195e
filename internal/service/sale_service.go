package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"carniceria/internal/dto"
	"carniceria/internal/event"
	"carniceria/internal/model"
	"carniceria/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type SaleService interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResult, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
}

type saleService struct {
	tx        repository.Transactor
	sales     repository.SaleRepository
	products  repository.ProductRepository
	customers repository.CustomerRepository
	movements repository.StockMovementRepository
	events    event.Publisher
}

func NewSaleService(
	tx repository.Transactor,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	movements repository.StockMovementRepository,
	events event.Publisher,
) SaleService {
	return &saleService{
		tx:        tx,
		sales:     sales,
		products:  products,
		customers: customers,
		movements: movements,
		events:    events,
	}
}

// ── RecordSale ───────────────────────────────────────────────────────────────
// One transaction:
//   1. resolve customer by (phone, name)
//   2. insert header (declared total, status pendiente)
//   3. per item: conditional decrement, stock movement, sale item
//   4. COMMIT
// StockChanged events are published only after the commit succeeded.

func (s *saleService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, &ValidationError{Fields: map[string]string{fmt.Sprintf("Items[%d].ProductID", i): "uuid"}}
		}
		productIDs[i] = pid
	}

	name, phone := customerKey(req.CustomerName, req.CustomerPhone)
	notes := ""
	if req.Notes != nil {
		notes = *req.Notes
	}

	var (
		sale     model.Sale
		customer *model.Customer
		changes  []event.StockChanged
	)
	txErr := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		changes = changes[:0]

		c, err := s.customers.FindOrCreateTx(tx, phone, name)
		if err != nil {
			return fmt.Errorf("resolver cliente: %w", err)
		}
		customer = c

		sale = model.Sale{
			CustomerID:    c.ID,
			Total:         *req.Total,
			PaymentMethod: req.PaymentMethod,
			Status:        model.SaleStatusPending,
			Notes:         notes,
		}
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		sale.Items = make([]model.SaleItem, 0, len(req.Items))
		for i, item := range req.Items {
			p, err := s.decrement(tx, productIDs[i], item)
			if err != nil {
				return err
			}
			previous := p.Stock.Add(item.Quantity)

			saleRef := sale.ID
			mov := &model.StockMovement{
				ProductID:     p.ID,
				Kind:          model.MovementSale,
				Quantity:      item.Quantity.Neg(),
				PreviousStock: previous,
				NewStock:      p.Stock,
				Reason:        "Venta " + sale.ID.String(),
				ReferenceID:   &saleRef,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return fmt.Errorf("registrar movimiento de %s: %w", p.Name, err)
			}

			line := model.SaleItem{
				SaleID:      sale.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    item.Quantity,
				UnitPrice:   *item.UnitPrice,
				Subtotal:    *item.Subtotal,
			}
			if err := s.sales.CreateItemTx(tx, &line); err != nil {
				return fmt.Errorf("crear item de %s: %w", p.Name, err)
			}
			sale.Items = append(sale.Items, line)

			changes = append(changes, event.StockChanged{
				ProductID:     p.ID,
				ProductName:   p.Name,
				PreviousStock: previous,
				NewStock:      p.Stock,
			})
		}
		return nil
	})
	if txErr != nil {
		log.Warn().Err(txErr).Int("items", len(req.Items)).Msg("sale rejected, transaction rolled back")
		return nil, passDomain("registrar venta", txErr)
	}

	sale.Customer = customer
	log.Info().
		Str("sale_id", sale.ID.String()).
		Str("customer_id", customer.ID.String()).
		Str("total", sale.Total.String()).
		Int("items", len(sale.Items)).
		Msg("sale recorded")

	if s.events != nil {
		s.events.PublishStockChanged(changes...)
	}

	return &dto.SaleResult{
		Sale:     *saleToResponse(&sale),
		Customer: customerToResponse(customer),
	}, nil
}

// decrement applies the conditional stock decrement for one line and turns a
// refused update into the matching domain error.
func (s *saleService) decrement(tx *gorm.DB, productID uuid.UUID, item dto.SaleItemRequest) (*model.Product, error) {
	p, err := s.products.DecrementStockTx(tx, productID, item.Quantity)
	if err == nil {
		return p, nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, notFound("Producto", productID)
	case errors.Is(err, repository.ErrInsufficientStock):
		current, findErr := s.products.FindByIDForUpdateTx(tx, productID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return nil, notFound("Producto", productID)
			}
			return nil, fmt.Errorf("releer producto: %w", findErr)
		}
		return nil, &ConflictError{Message: "Stock insuficiente para " + current.Name}
	default:
		return nil, fmt.Errorf("descontar stock: %w", err)
	}
}

// customerKey normalizes the optional customer fields into the lookup key:
// a blank name becomes the general customer and a blank phone becomes NULL.
func customerKey(name, phone *string) (string, *string) {
	n := model.GeneralCustomerName
	if name != nil && strings.TrimSpace(*name) != "" {
		n = strings.TrimSpace(*name)
	}
	var p *string
	if phone != nil && strings.TrimSpace(*phone) != "" {
		v := strings.TrimSpace(*phone)
		p = &v
	}
	return n, p
}

// ── Read side ────────────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "Venta"}
		}
		return nil, transient("obtener venta", err)
	}
	return saleToResponse(sale), nil
}

// ListSales returns a page of sales, newest first.
func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Date != "" {
		if _, err := time.Parse("2006-01-02", filter.Date); err != nil {
			return nil, &ValidationError{Fields: map[string]string{"fecha": "datetime"}}
		}
	}

	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, transient("listar ventas", err)
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{
		Data:  data,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── Mappers ──────────────────────────────────────────────────────────────────

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		Status:        s.Status,
		Notes:         s.Notes,
		CreatedAt:     s.CreatedAt.Format(time.RFC3339),
	}
	if s.Customer != nil {
		c := customerToResponse(s.Customer)
		resp.Customer = &c
	}
	for _, it := range s.Items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:          it.ID.String(),
			ProductID:   it.ProductID.String(),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return resp
}

func customerToResponse(c *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		Phone:   c.Phone,
		Address: c.Address,
	}
}
