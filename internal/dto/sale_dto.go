package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Quantities fit decimal(12,3) and amounts decimal(10,2); anything finer or
// larger is rejected here rather than by the database.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"   validate:"gt=0,lt=1000000000,decimals=3"`
	UnitPrice *decimal.Decimal `json:"unit_price" validate:"required,min=0,lt=100000000,decimals=2"`
	Subtotal  *decimal.Decimal `json:"subtotal"   validate:"required,min=0,lt=100000000,decimals=2"`
}

// RecordSaleRequest is the body of POST /v1/sales.
// Total and item subtotals are taken as declared by the client.
type RecordSaleRequest struct {
	CustomerName  *string           `json:"customer_name"  validate:"omitempty,max=255"`
	CustomerPhone *string           `json:"customer_phone" validate:"omitempty,max=20"`
	Items         []SaleItemRequest `json:"items"          validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=efectivo tarjeta transferencia"`
	Total         *decimal.Decimal  `json:"total"          validate:"required,min=0,lt=100000000,decimals=2"`
	Notes         *string           `json:"notes"`
}

// ─── Filter / List ──────────────────────────────────────────────────────────

// SaleFilter is bound from the query string of GET /v1/sales.
type SaleFilter struct {
	Date  string `form:"fecha"` // YYYY-MM-DD; empty = all dates
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CustomerResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone"`
	Address string  `json:"address"`
}

type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	Customer      *CustomerResponse  `json:"customer"`
	Items         []SaleItemResponse `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	Status        string             `json:"status"`
	Notes         string             `json:"notes"`
	CreatedAt     string             `json:"created_at"`
}

// SaleResult is what the sale recorder hands back on success.
type SaleResult struct {
	Sale     SaleResponse     `json:"sale"`
	Customer CustomerResponse `json:"customer"`
}

type SaleListResponse struct {
	Data  []SaleResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
