package model

import (
	"time"

	"github.com/google/uuid"
)

// Category groups cuts and products (e.g. "Res", "Cerdo").
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Cuts []Cut `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
