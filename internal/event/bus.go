// Package event carries in-process domain events published after a
// transaction has committed. Subscribers run synchronously on the
// publisher's goroutine unless they spawn their own.
package event

import (
	"github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicStockChanged is published once per product whose stock was modified.
const TopicStockChanged = "stock:changed"

// StockChanged describes a committed stock modification of one product.
type StockChanged struct {
	ProductID     uuid.UUID
	ProductName   string
	PreviousStock decimal.Decimal
	NewStock      decimal.Decimal
}

// Publisher is the side services depend on.
type Publisher interface {
	PublishStockChanged(events ...StockChanged)
}

// Bus wraps EventBus with typed helpers.
type Bus struct {
	bus EventBus.Bus
}

func NewBus() *Bus {
	return &Bus{bus: EventBus.New()}
}

func (b *Bus) PublishStockChanged(events ...StockChanged) {
	for _, e := range events {
		b.bus.Publish(TopicStockChanged, e)
	}
}

// SubscribeStockChanged registers fn for every StockChanged event.
func (b *Bus) SubscribeStockChanged(fn func(StockChanged)) error {
	return b.bus.Subscribe(TopicStockChanged, fn)
}

// SubscribeStockChangedAsync registers fn to run on its own goroutine per
// event; WaitAsync blocks until those handlers have returned.
func (b *Bus) SubscribeStockChangedAsync(fn func(StockChanged)) error {
	return b.bus.SubscribeAsync(TopicStockChanged, fn, false)
}

func (b *Bus) WaitAsync() {
	b.bus.WaitAsync()
}
