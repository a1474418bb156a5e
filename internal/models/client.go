package models

import (
	"fmt"
	"time"
)

// Client entity. Individuals carry the same value in Name and BusinessName;
// companies differ, which changes the document header layout.
type Client struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	BusinessName  string    `gorm:"size:255;not null" json:"business_name"`
	StreetAddress string    `gorm:"size:255" json:"street_address"`
	City          string    `gorm:"size:100" json:"city"`
	State         string    `gorm:"size:50" json:"state"`
	ZipCode       string    `gorm:"size:20" json:"zip_code"`
	Email         string    `gorm:"size:255" json:"email"`
	Phone         string    `gorm:"size:50" json:"phone"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsIndividual reports whether the client is a private person rather than a
// company with a distinct trading name.
func (c *Client) IsIndividual() bool { return c.Name == c.BusinessName }

// BillingAddress renders the mailing address on a single line.
func (c *Client) BillingAddress() string {
	return fmt.Sprintf("%s, %s, %s %s", c.StreetAddress, c.City, c.State, c.ZipCode)
}
