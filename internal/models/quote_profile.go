package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is one priced row of a quote or invoice. Values arrive from the
// caller as strings and are validated when a document is generated, so a
// profile can be saved with fields still being edited.
type LineItem struct {
	ServiceName string `json:"service_name"`
	Quantity    string `json:"quantity"`
	PerUnit     string `json:"per_unit"`
	UnitPrice   string `json:"unit_price"`
	Tax         string `json:"tax"`
	TotalPrice  string `json:"total_price"`
}

// QuoteProfile is a client's saved, reusable pricing configuration. One per
// client: the client id is both primary key and foreign key. Invariant:
// GrandTotal equals the sum of line totals; callers recompute it when lines
// change, the store does not.
type QuoteProfile struct {
	ClientID            uint                          `gorm:"primaryKey" json:"client_id"`
	MinMonthlyCharge    decimal.Decimal               `gorm:"type:decimal(10,2)" json:"min_monthly_charge"`
	PremiumSaltUpcharge decimal.Decimal               `gorm:"type:decimal(10,2)" json:"premium_salt_upcharge"`
	Lines               datatypes.JSONSlice[LineItem] `json:"lines"`
	GrandTotal          decimal.Decimal               `gorm:"type:decimal(10,2)" json:"grand_total"`
	CreatedAt           time.Time                     `json:"created_at"`
	UpdatedAt           time.Time                     `json:"updated_at"`
}
