package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the counter.
const (
	PaymentCash     = "efectivo"
	PaymentCard     = "tarjeta"
	PaymentTransfer = "transferencia"
)

// Sale statuses. Sales are created as pending; no code path transitions them yet.
const (
	SaleStatusPending   = "pendiente"
	SaleStatusPaid      = "pagado"
	SaleStatusCancelled = "cancelado"
)

// Sale is the immutable header of a recorded sale.
// Total is the client-declared amount; it is not recomputed from the items.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'efectivo'"`
	Status        string          `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Notes         string          `gorm:"not null;default:''"`
	CreatedAt     time.Time       `gorm:"index"`
	UpdatedAt     time.Time

	Customer *Customer  `gorm:"foreignKey:CustomerID"`
	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one line of a Sale. ProductName and UnitPrice are snapshots taken
// at sale time so later catalog edits do not rewrite history.
type SaleItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductName string          `gorm:"not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt   time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}
