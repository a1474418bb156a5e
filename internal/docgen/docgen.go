// Package docgen builds the self-contained HTML body of a quote or invoice.
// Generation is a pure function of its input: no I/O, no clock reads beyond
// the issue date the caller supplies. The rendered string is what gets
// rasterized to PDF and what is stored verbatim on the document record.
package docgen

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plowline/backoffice/internal/models"
)

// DocType selects the document layout.
type DocType string

const (
	TypeQuote   DocType = "quote"
	TypeInvoice DocType = "invoice"
)

// Input carries everything the generator needs. MinMonthlyCharge and
// PremiumSaltUpcharge only matter for quotes; they parameterize the service
// disclosure clause.
type Input struct {
	Type       DocType
	Client     *models.Client
	Number     string
	IssueDate  time.Time
	Lines      []models.LineItem
	GrandTotal decimal.Decimal

	MinMonthlyCharge    decimal.Decimal
	PremiumSaltUpcharge decimal.Decimal

	// LogoPath is the header image reference; empty omits the logo cell.
	LogoPath string
}

//go:embed document.tmpl
var tmplFS embed.FS

var docTmpl = template.Must(template.ParseFS(tmplFS, "document.tmpl"))

type row struct {
	ServiceName string
	Quantity    string
	PerUnit     string
	UnitPrice   string
	Tax         string
	TotalPrice  string
}

type disclosure struct {
	SaltUpcharge string
	MinMonthly   string
}

type renderContext struct {
	Label       string
	NumberLabel string
	Number      string
	IssueDate   string
	LogoPath    string

	ClientName       string
	BusinessName     string
	ShowBusinessName bool
	StreetAddress    string
	CityLine         string

	Rows       []row
	GrandTotal string

	Disclosure *disclosure
}

// Generate renders the document HTML. Any non-numeric quantity, unit price,
// tax, or total in a line item aborts generation; no partial document is
// returned. The grand total is pass-through: the generator formats the
// caller's value, it never recomputes pricing.
func Generate(in Input) (string, error) {
	if in.Type != TypeQuote && in.Type != TypeInvoice {
		return "", fmt.Errorf("unknown document type %q", in.Type)
	}
	if in.Client == nil {
		return "", fmt.Errorf("generate %s: client is required", in.Type)
	}

	rows := make([]row, 0, len(in.Lines))
	for i, line := range in.Lines {
		r, err := formatLine(line)
		if err != nil {
			return "", fmt.Errorf("line %d (%s): %w", i+1, line.ServiceName, err)
		}
		rows = append(rows, r)
	}

	ctx := renderContext{
		Number:        in.Number,
		IssueDate:     in.IssueDate.Format("01/02/2006"),
		LogoPath:      in.LogoPath,
		ClientName:    in.Client.Name,
		StreetAddress: in.Client.StreetAddress,
		CityLine:      fmt.Sprintf("%s, %s %s", in.Client.City, in.Client.State, in.Client.ZipCode),
		Rows:          rows,
		GrandTotal:    in.GrandTotal.StringFixed(2),
	}
	// Individuals (name == business name) get a single-row header block.
	if !in.Client.IsIndividual() {
		ctx.BusinessName = in.Client.BusinessName
		ctx.ShowBusinessName = true
	}
	switch in.Type {
	case TypeInvoice:
		ctx.Label = "INVOICE"
		ctx.NumberLabel = "Invoice No."
	case TypeQuote:
		ctx.Label = "QUOTE"
		ctx.NumberLabel = "Quote No."
		ctx.Disclosure = &disclosure{
			SaltUpcharge: in.PremiumSaltUpcharge.StringFixed(2),
			MinMonthly:   in.MinMonthlyCharge.StringFixed(2),
		}
	}

	var buf bytes.Buffer
	if err := docTmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("render %s template: %w", in.Type, err)
	}
	return buf.String(), nil
}

func formatLine(line models.LineItem) (row, error) {
	qty, err := decimal.NewFromString(line.Quantity)
	if err != nil {
		return row{}, fmt.Errorf("invalid quantity %q", line.Quantity)
	}
	unit, err := decimal.NewFromString(line.UnitPrice)
	if err != nil {
		return row{}, fmt.Errorf("invalid unit price %q", line.UnitPrice)
	}
	tax, err := decimal.NewFromString(line.Tax)
	if err != nil {
		return row{}, fmt.Errorf("invalid tax %q", line.Tax)
	}
	total, err := decimal.NewFromString(line.TotalPrice)
	if err != nil {
		return row{}, fmt.Errorf("invalid total %q", line.TotalPrice)
	}
	return row{
		ServiceName: line.ServiceName,
		Quantity:    qty.String(),
		PerUnit:     line.PerUnit,
		UnitPrice:   unit.StringFixed(2),
		Tax:         tax.StringFixed(2),
		TotalPrice:  total.StringFixed(2),
	}, nil
}
