package dto

import "github.com/shopspring/decimal"

// LowStockResponse is one entry of GET /v1/stock/low.
type LowStockResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Stock     decimal.Decimal `json:"stock"`
}

// StockMovementFilter is bound from the query string of GET /v1/stock/movements.
type StockMovementFilter struct {
	ProductID string `form:"product_id"`
	Kind      string `form:"kind"`
	Page      int    `form:"page,default=1"    validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type StockMovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Kind          string          `json:"kind"`
	Quantity      decimal.Decimal `json:"quantity"`
	PreviousStock decimal.Decimal `json:"previous_stock"`
	NewStock      decimal.Decimal `json:"new_stock"`
	Reason        string          `json:"reason"`
	ReferenceID   *string         `json:"reference_id"`
	CreatedAt     string          `json:"created_at"`
}

type StockMovementListResponse struct {
	Data  []StockMovementResponse `json:"data"`
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Limit int                     `json:"limit"`
}

// ScanResponse is returned by POST /v1/stock/scan.
type ScanResponse struct {
	Success  bool `json:"success"`
	Reported int  `json:"reported"`
}
