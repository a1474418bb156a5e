package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/plowline/backoffice/internal/docgen"
	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/pdf"
	"github.com/plowline/backoffice/internal/services"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

// DocumentHandler serves quote/invoice history, the send pipeline endpoints,
// and PDF re-rendering of stored documents.
type DocumentHandler struct {
	Store    *store.Store
	Pipeline *services.Delivery
	Renderer pdf.Renderer
}

func NewDocumentHandler(st *store.Store, pipeline *services.Delivery, renderer pdf.Renderer) *DocumentHandler {
	return &DocumentHandler{Store: st, Pipeline: pipeline, Renderer: renderer}
}

// ListQuotes: GET /quotes
func (h *DocumentHandler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	qs, err := h.Store.ListQuotes()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_quotes", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": qs, "total": len(qs)})
}

// ListInvoices: GET /invoices
func (h *DocumentHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invs, err := h.Store.ListInvoices()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_invoices", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": invs, "total": len(invs)})
}

type sendQuotesReq struct {
	ClientIDs []uint `json:"client_ids" validate:"required,min=1,dive,required"`
}

type sendResultView struct {
	ClientID uint   `json:"client_id"`
	Number   string `json:"number,omitempty"`
	State    string `json:"state"`
	Reached  string `json:"reached,omitempty"`
	Error    string `json:"error,omitempty"`
}

func viewResults(results []services.SendResult) (views []sendResultView, failures int) {
	views = make([]sendResultView, 0, len(results))
	for _, res := range results {
		v := sendResultView{ClientID: res.ClientID, Number: res.Number, State: string(res.State)}
		if res.Err != nil {
			v.Reached = string(res.Reached)
			v.Error = res.Err.Error()
			failures++
		}
		views = append(views, v)
	}
	return views, failures
}

// SendQuotes: POST /quotes/send — batch send from saved profiles. Clients
// are processed in order; one failure neither aborts nor rolls back the
// others, and every client's outcome is reported.
func (h *DocumentHandler) SendQuotes(w http.ResponseWriter, r *http.Request) {
	var req sendQuotesReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	results := h.Pipeline.SendQuotes(r.Context(), req.ClientIDs)
	views, failures := viewResults(results)
	if failures == len(results) {
		httpx.JSON(w, http.StatusInternalServerError, httpx.Envelope("All quote sends failed.", "", map[string]any{"results": views}))
		return
	}
	detail := "Quotes sent successfully."
	if failures > 0 {
		detail = "Quotes sent with failures."
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope(detail, "/quotes?page=1", map[string]any{"results": views}))
}

type sendInvoiceReq struct {
	ClientID   uint              `json:"client_id" validate:"required"`
	Items      []models.LineItem `json:"items" validate:"required,min=1"`
	GrandTotal string            `json:"grand_total" validate:"required"`
}

// SendInvoice: POST /invoices/send — single ad hoc invoice.
func (h *DocumentHandler) SendInvoice(w http.ResponseWriter, r *http.Request) {
	var req sendInvoiceReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	grandTotal, err := decimal.NewFromString(req.GrandTotal)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"grand_total": "not_a_number"})
		return
	}
	res := h.Pipeline.SendInvoice(r.Context(), req.ClientID, req.Items, grandTotal)
	if res.Err != nil {
		views, _ := viewResults([]services.SendResult{res})
		httpx.JSON(w, http.StatusInternalServerError, httpx.Envelope("Invoice send failed.", "", map[string]any{"results": views}))
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Invoice sent successfully.", "/quotes_and_invoices",
		map[string]any{"number": res.Number}))
}

// DownloadQuote: GET /quotes/download?quote_id= — re-render the stored HTML
// body to a PDF in the configured save path. The stored body is used
// verbatim, so the output matches what was sent originally.
func (h *DocumentHandler) DownloadQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "quote_id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_quote_id", nil)
		return
	}
	q, err := h.Store.GetQuote(id)
	if err != nil {
		httpx.StoreError(w, err, "quote_not_found")
		return
	}
	h.download(w, r, docgen.TypeQuote, q.ClientID, q.Number, q.BodyHTML)
}

// DownloadInvoice: GET /invoices/download?invoice_id=
func (h *DocumentHandler) DownloadInvoice(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "invoice_id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_invoice_id", nil)
		return
	}
	inv, err := h.Store.GetInvoice(id)
	if err != nil {
		httpx.StoreError(w, err, "invoice_not_found")
		return
	}
	h.download(w, r, docgen.TypeInvoice, inv.ClientID, inv.Number, inv.BodyHTML)
}

func (h *DocumentHandler) download(w http.ResponseWriter, r *http.Request, t docgen.DocType, clientID uint, number, bodyHTML string) {
	client, err := h.Store.GetClient(clientID)
	if err != nil {
		httpx.StoreError(w, err, "client_not_found")
		return
	}
	cfg, err := settings.Load(h.Store)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_settings", nil)
		return
	}
	dest := filepath.Join(cfg.PDFSavePath, services.DocumentFileName(t, client.Name, number))
	if err := h.Renderer.Render(r.Context(), bodyHTML, dest); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "pdf_generation_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("PDF saved.", "/quotes_and_invoices", map[string]any{"path": dest}))
}
