package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ProductRequest is used for both create and update; the original catalog
// replaces the whole record on update.
type ProductRequest struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool            `json:"is_active"`
	IsOffer     bool             `json:"is_offer"`
	Stock       decimal.Decimal  `json:"stock"       validate:"min=0,lt=1000000000,decimals=3"`
	Price       decimal.Decimal  `json:"price"       validate:"min=0,lt=100000000,decimals=2"`
	Discount    *decimal.Decimal `json:"discount"    validate:"omitempty,min=0,max=100,decimals=2"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	CutID       *string          `json:"cut_id"      validate:"omitempty,uuid"`
	Image       *string          `json:"image"`
	ImageAlt    *string          `json:"image_alt"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Name       string `form:"name"`
	CategoryID string `form:"category_id"`
	CutID      string `form:"cut_id"`
	Active     string `form:"active"` // "true" | "false" | "" = all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	IsActive    bool             `json:"is_active"`
	IsOffer     bool             `json:"is_offer"`
	Stock       decimal.Decimal  `json:"stock"`
	Price       decimal.Decimal  `json:"price"`
	Discount    *decimal.Decimal `json:"discount"`
	OfferPrice  *decimal.Decimal `json:"offer_price"`
	CategoryID  *string          `json:"category_id"`
	CutID       *string          `json:"cut_id"`
	Image       *string          `json:"image"`
	ImageAlt    *string          `json:"image_alt"`
}

type ProductListResponse struct {
	Data       []ProductResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
