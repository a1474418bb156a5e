package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service is one entry of the service catalog.
type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:500" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// FormattedUnitPrice returns the price as shown in listings, e.g. "$50.00".
func (s *Service) FormattedUnitPrice() string {
	return "$" + s.UnitPrice.StringFixed(2)
}
