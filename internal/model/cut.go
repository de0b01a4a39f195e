package model

import (
	"time"

	"github.com/google/uuid"
)

// Cut is a butchery cut belonging to exactly one Category.
type Cut struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"uniqueIndex;not null"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}
