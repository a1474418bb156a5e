// Package pdf rasterizes generated document HTML to PDF files.
package pdf

import (
	"context"
	"fmt"
	"strings"

	wkhtmltopdf "github.com/SebastiaanKlippert/go-wkhtmltopdf"
)

// Renderer writes an HTML document as a PDF at destPath. Implementations
// either produce the complete file or return an error; there is no partial
// output contract.
type Renderer interface {
	Render(ctx context.Context, html string, destPath string) error
}

// WKRenderer renders through the wkhtmltopdf binary.
type WKRenderer struct{}

func NewWKRenderer() *WKRenderer { return &WKRenderer{} }

func (r *WKRenderer) Render(ctx context.Context, html string, destPath string) error {
	gen, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return fmt.Errorf("init wkhtmltopdf: %w", err)
	}
	page := wkhtmltopdf.NewPageReader(strings.NewReader(html))
	page.DisableExternalLinks.Set(true)
	gen.AddPage(page)
	if err := gen.CreateContext(ctx); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := gen.WriteFile(destPath); err != nil {
		return fmt.Errorf("write pdf %s: %w", destPath, err)
	}
	return nil
}
