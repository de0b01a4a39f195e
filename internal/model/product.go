package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the inclusive stock level at or below which a product is under-stocked.
var LowStockThreshold = decimal.NewFromInt(5)

// Product is a sellable item of the shop. Stock is kept as a decimal so that
// fractional sales (kilograms) decrement it exactly.
//
// Write-time rules (enforced by the catalog service and the sale decrement, not by the DB):
//   - Stock == 0 implies IsActive == false
//   - OfferPrice is set iff IsOffer and Discount are set: OfferPrice = Price * (1 - Discount/100)
type Product struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string           `gorm:"index;not null"`
	Description *string
	IsActive    bool             `gorm:"not null"`
	IsOffer     bool             `gorm:"not null;default:false"`
	Stock       decimal.Decimal  `gorm:"type:decimal(12,3);not null;default:0"`
	Price       decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Discount    *decimal.Decimal `gorm:"type:decimal(5,2)"`
	OfferPrice  *decimal.Decimal `gorm:"type:decimal(10,2)"`
	CategoryID  *uuid.UUID       `gorm:"type:uuid;index"`
	CutID       *uuid.UUID       `gorm:"type:uuid;index"`
	Image       *string
	ImageAlt    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL"`
	Cut      *Cut      `gorm:"foreignKey:CutID;constraint:OnDelete:SET NULL"`
}
