// Package settings is the typed view over the generic app_settings table.
// The table stores arbitrary JSON; this package enumerates the known keys,
// validates their types at load time, and is the only place the rest of the
// code reads settings through.
package settings

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/store"
)

// Known setting ids. The numeric series groups settings by area, matching the
// category column: 0000 general, 3000 documents.
const (
	KeyTheme            = "0000"
	KeyColorTheme       = "0001"
	KeyPDFSavePath      = "3000"
	KeyQuoteEmailBody   = "3001"
	KeyInvoiceEmailBody = "3002"
	KeyDocumentLogoPath = "3003"
)

// Settings holds the decoded values of every known key.
type Settings struct {
	Theme            string
	ColorTheme       string
	PDFSavePath      string
	QuoteEmailBody   string
	InvoiceEmailBody string
	DocumentLogoPath string
}

// Load reads and decodes every known setting. A missing row or a value of
// the wrong JSON type is an error: settings are seeded at startup, so either
// means the table was edited out from under the app.
func Load(st *store.Store) (*Settings, error) {
	s := &Settings{}
	for _, bind := range []struct {
		id   string
		dest *string
	}{
		{KeyTheme, &s.Theme},
		{KeyColorTheme, &s.ColorTheme},
		{KeyPDFSavePath, &s.PDFSavePath},
		{KeyQuoteEmailBody, &s.QuoteEmailBody},
		{KeyInvoiceEmailBody, &s.InvoiceEmailBody},
		{KeyDocumentLogoPath, &s.DocumentLogoPath},
	} {
		row, err := st.GetSetting(bind.id)
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", bind.id, err)
		}
		if err := json.Unmarshal(row.Value, bind.dest); err != nil {
			return nil, fmt.Errorf("setting %s (%s): expected a JSON string: %w", bind.id, row.SettingName, err)
		}
	}
	return s, nil
}

func mustJSON(v any) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}

// Defaults returns the rows seeded on first start. PDFSavePath defaults to
// the working directory; operators point it at a shared folder afterwards.
func Defaults() []models.AppSetting {
	return []models.AppSetting{
		{ID: KeyTheme, Category: "general", SettingName: "theme", Value: mustJSON("light")},
		{ID: KeyColorTheme, Category: "general", SettingName: "color-theme", Value: mustJSON("blue-400")},
		{ID: KeyPDFSavePath, Category: "documents", SettingName: "pdf-save-to-path", Value: mustJSON(".")},
		{ID: KeyQuoteEmailBody, Category: "documents", SettingName: "quote-email-body", Value: mustJSON(
			"Dear {{client.name}},\n\nPlease find your quote attached. It covers seasonal service at {{client.street_address}}.\n\nThank you,\nPlowline Services")},
		{ID: KeyInvoiceEmailBody, Category: "documents", SettingName: "invoice-email-body", Value: mustJSON(
			"Dear {{client.name}},\n\nPlease find your invoice attached for services performed at {{client.street_address}}.\n\nThank you,\nPlowline Services")},
		{ID: KeyDocumentLogoPath, Category: "documents", SettingName: "document-logo-path", Value: mustJSON("./static/images/plowline-logo-250w.png")},
	}
}
