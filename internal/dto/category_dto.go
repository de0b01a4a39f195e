package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CategoryRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

type CutRequest struct {
	Name       string `json:"name"        validate:"required,max=255"`
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type CutResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}
