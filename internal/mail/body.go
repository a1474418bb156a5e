package mail

import (
	"strings"

	"github.com/plowline/backoffice/internal/models"
)

// RenderBody substitutes the client placeholders in a stored email body
// template. Substitution is literal text replacement; unknown placeholders
// pass through untouched so a typo is visible in the sent mail rather than
// swallowed.
func RenderBody(tmpl string, c *models.Client) string {
	return strings.NewReplacer(
		"{{client.name}}", c.Name,
		"{{client.business_name}}", c.BusinessName,
		"{{client.street_address}}", c.StreetAddress,
		"{{client.city}}", c.City,
		"{{client.state}}", c.State,
		"{{client.zip_code}}", c.ZipCode,
	).Replace(tmpl)
}
