package service

import (
	"context"

	"carniceria/internal/event"
	"carniceria/internal/model"
	"carniceria/internal/repository"
	"carniceria/internal/worker"

	"github.com/rs/zerolog/log"
)

const (
	lowStockSubject  = "Por favor reponer el stock de los siguientes productos"
	lowStockTemplate = "low_stock"
)

// Notifier hands an email to the delivery pipeline. *worker.Dispatcher satisfies it.
type Notifier interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// StockMonitor raises low-stock notifications, both reactively on every
// committed stock change and on demand through Scan.
type StockMonitor struct {
	products  repository.ProductRepository
	notifier  Notifier
	recipient string
}

func NewStockMonitor(products repository.ProductRepository, notifier Notifier, recipient string) *StockMonitor {
	return &StockMonitor{products: products, notifier: notifier, recipient: recipient}
}

// OnStockChanged notifies about a single product when its stock actually
// changed and the new value is at or below the threshold.
func (m *StockMonitor) OnStockChanged(ctx context.Context, e event.StockChanged) {
	if e.PreviousStock.Equal(e.NewStock) || e.NewStock.GreaterThan(model.LowStockThreshold) {
		return
	}
	m.notify(ctx, []lowStockEntry{{Name: e.ProductName, Stock: e.NewStock.String()}})
}

// Handle adapts OnStockChanged to the event bus callback signature.
func (m *StockMonitor) Handle(e event.StockChanged) {
	m.OnStockChanged(context.Background(), e)
}

// Scan reports every product at or below the threshold in one bundled
// notification and returns how many were reported.
func (m *StockMonitor) Scan(ctx context.Context) (int, error) {
	products, err := m.products.ListLowStock(ctx, model.LowStockThreshold)
	if err != nil {
		return 0, transient("listar stock bajo", err)
	}
	if len(products) == 0 {
		log.Info().Msg("stock scan: no products below threshold")
		return 0, nil
	}

	entries := make([]lowStockEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, lowStockEntry{Name: p.Name, Stock: p.Stock.String()})
	}
	m.notify(ctx, entries)
	log.Info().Int("products", len(entries)).Msg("stock scan: low stock notification sent")
	return len(entries), nil
}

type lowStockEntry struct {
	Name  string `json:"name"`
	Stock string `json:"stock"`
}

// notify never fails the caller; delivery problems are only logged.
func (m *StockMonitor) notify(ctx context.Context, entries []lowStockEntry) {
	if m.notifier == nil {
		log.Warn().Int("products", len(entries)).Msg("stock monitor: no notifier configured, alert dropped")
		return
	}
	if m.recipient == "" {
		log.Warn().Int("products", len(entries)).Msg("stock monitor: ALERT_RECIPIENT not set, alert dropped")
		return
	}

	payload := worker.EmailJobPayload{
		ToEmail:  m.recipient,
		Subject:  lowStockSubject,
		Template: lowStockTemplate,
		Data:     map[string]interface{}{"products": entries},
	}
	if err := m.notifier.EnqueueEmail(ctx, payload); err != nil {
		log.Error().Err(err).Int("products", len(entries)).Msg("stock monitor: failed to enqueue low stock email")
		return
	}
	for _, e := range entries {
		log.Warn().Str("product", e.Name).Str("stock", e.Stock).Msg("low stock")
	}
}
