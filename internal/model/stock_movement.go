package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stock movement kinds.
const (
	MovementSale       = "venta"
	MovementAdjustment = "ajuste"
)

// StockMovement records every change to a product's stock.
// Written in the same transaction as the change itself; never modified afterwards.
type StockMovement struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Kind          string          `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positive = in, negative = out
	PreviousStock decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	NewStock      decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Reason        string
	ReferenceID   *uuid.UUID `gorm:"type:uuid"` // sale id when Kind == MovementSale
	CreatedAt     time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
