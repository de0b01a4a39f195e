package model

import (
	"time"

	"github.com/google/uuid"
)

// GeneralCustomerName is used when a sale carries no customer name.
const GeneralCustomerName = "Cliente General"

// Customer is resolved at sale time by the (Phone, Name) pair; there is no stronger identity key.
type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"index:idx_customers_phone_name;not null"`
	Phone     *string   `gorm:"type:varchar(20);index:idx_customers_phone_name"`
	Address   string    `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
