package businesses

import (
	"time"

	"github.com/google/uuid"
)

// Business is one tenant of the platform. Each business owns its own
// reservations and cancellation rules; nothing is shared across tenants.
type Business struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name              string    `gorm:"not null" json:"name"`
	Type              string    `gorm:"type:varchar(20);check:type IN ('HOTEL', 'RESTAURANT', 'SALON');not null" json:"type"`
	Email             string    `gorm:"not null" json:"email"`
	Phone             string    `json:"phone"`
	Timezone          string    `gorm:"default:'UTC'" json:"timezone"`
	Currency          string    `gorm:"type:varchar(3);default:'USD'" json:"currency"`
	CurrencyPrecision int32     `gorm:"default:2" json:"currency_precision"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName sets the table name for Business
func (Business) TableName() string {
	return "businesses"
}

// BusinessRequest represents a request to create or update a business
type BusinessRequest struct {
	Name              string `json:"name" binding:"required,min=2,max=120"`
	Type              string `json:"type" binding:"required,oneof=HOTEL RESTAURANT SALON"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone"`
	Timezone          string `json:"timezone"`
	Currency          string `json:"currency" binding:"omitempty,len=3"`
	CurrencyPrecision *int32 `json:"currency_precision" binding:"omitempty,gte=0,lte=4"`
}
