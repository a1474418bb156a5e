package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/plowline/backoffice/internal/mail"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/services"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

type fakeRenderer struct {
	rendered map[string]string // dest path -> html
	failErr  error
}

func (f *fakeRenderer) Render(_ context.Context, html, dest string) error {
	if f.failErr != nil {
		return f.failErr
	}
	if f.rendered == nil {
		f.rendered = map[string]string{}
	}
	f.rendered[dest] = html
	return nil
}

type fakeMailer struct {
	sent    []mail.Message
	failErr error
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.failErr != nil {
		return f.failErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

type docEnv struct {
	store    *store.Store
	handler  *DocumentHandler
	renderer *fakeRenderer
	mailer   *fakeMailer
}

func newDocEnv(t *testing.T) *docEnv {
	t.Helper()
	st := setupStore(t)
	for _, row := range settings.Defaults() {
		if err := st.SeedSetting(row); err != nil {
			t.Fatalf("seed setting %s: %v", row.ID, err)
		}
	}
	dir := t.TempDir()
	if err := st.UpdateSettingValue(settings.KeyPDFSavePath, datatypes.JSON(fmt.Sprintf("%q", dir))); err != nil {
		t.Fatalf("point pdf path at temp dir: %v", err)
	}
	renderer := &fakeRenderer{}
	mailer := &fakeMailer{}
	pipeline := services.NewDelivery(st, services.NewAssigner(st), renderer, mailer, zerolog.Nop())
	return &docEnv{store: st, handler: NewDocumentHandler(st, pipeline, renderer), renderer: renderer, mailer: mailer}
}

func (e *docEnv) seedClient(t *testing.T) *models.Client {
	t.Helper()
	c := &models.Client{
		Name:          "Jane Doe",
		BusinessName:  "Jane Doe",
		StreetAddress: "12 Birch Rd",
		City:          "Duluth",
		State:         "MN",
		ZipCode:       "55802",
		Email:         "jane@example.com",
	}
	if err := e.store.CreateClient(c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func (e *docEnv) seedProfile(t *testing.T, clientID uint) {
	t.Helper()
	p := &models.QuoteProfile{
		ClientID:            clientID,
		MinMonthlyCharge:    decimal.NewFromInt(200),
		PremiumSaltUpcharge: decimal.NewFromFloat(35.50),
		Lines: datatypes.NewJSONSlice([]models.LineItem{
			{ServiceName: "Plowing", Quantity: "1", PerUnit: "visit", UnitPrice: "50.00", Tax: "0", TotalPrice: "50.00"},
		}),
		GrandTotal: decimal.NewFromInt(50),
	}
	if err := e.store.SaveProfile(p); err != nil {
		t.Fatalf("save profile: %v", err)
	}
}

func sendInvoiceBody(clientID uint) string {
	return fmt.Sprintf(`{
		"client_id": %d,
		"items": [{"service_name": "Sanding", "quantity": "2", "per_unit": "visit", "unit_price": "40.00", "tax": "0", "total_price": "80.00"}],
		"grand_total": "80.00"
	}`, clientID)
}

func TestSendInvoiceEndpoint(t *testing.T) {
	env := newDocEnv(t)
	c := env.seedClient(t)

	rec := httptest.NewRecorder()
	env.handler.SendInvoice(rec, httptest.NewRequest(http.MethodPost, "/invoices/send", strings.NewReader(sendInvoiceBody(c.ID))))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	wantNumber := fmt.Sprintf("%d-0001", c.ID)
	if body["number"] != wantNumber {
		t.Fatalf("expected number %s, got %v", wantNumber, body["number"])
	}
	if len(env.mailer.sent) != 1 {
		t.Fatalf("expected one email, got %d", len(env.mailer.sent))
	}
	msg := env.mailer.sent[0]
	if msg.To[0] != c.Email || !strings.Contains(msg.Subject, wantNumber) {
		t.Fatalf("unexpected message: %+v", msg)
	}
	invs, err := env.store.ListInvoices()
	if err != nil || len(invs) != 1 {
		t.Fatalf("expected one stored invoice, got %d err=%v", len(invs), err)
	}
}

func TestSendInvoiceRenderFailure(t *testing.T) {
	env := newDocEnv(t)
	c := env.seedClient(t)
	env.renderer.failErr = fmt.Errorf("wkhtmltopdf exited 1")

	rec := httptest.NewRecorder()
	env.handler.SendInvoice(rec, httptest.NewRequest(http.MethodPost, "/invoices/send", strings.NewReader(sendInvoiceBody(c.ID))))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.mailer.sent) != 0 {
		t.Fatal("no email must go out when rendering fails")
	}
	invs, err := env.store.ListInvoices()
	if err != nil || len(invs) != 0 {
		t.Fatalf("no invoice row must be stored, got %d err=%v", len(invs), err)
	}
}

func TestSendInvoiceRejectsBadGrandTotal(t *testing.T) {
	env := newDocEnv(t)
	c := env.seedClient(t)

	payload := strings.Replace(sendInvoiceBody(c.ID), `"grand_total": "80.00"`, `"grand_total": "eighty"`, 1)
	rec := httptest.NewRecorder()
	env.handler.SendInvoice(rec, httptest.NewRequest(http.MethodPost, "/invoices/send", strings.NewReader(payload)))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSendQuotesBatchReportsPartialFailure(t *testing.T) {
	env := newDocEnv(t)
	withProfile := env.seedClient(t)
	env.seedProfile(t, withProfile.ID)
	bare := env.seedClient(t) // no quote profile

	payload := fmt.Sprintf(`{"client_ids": [%d, %d]}`, withProfile.ID, bare.ID)
	rec := httptest.NewRecorder()
	env.handler.SendQuotes(rec, httptest.NewRequest(http.MethodPost, "/quotes/send", strings.NewReader(payload)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a partial failure, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["detail"] != "Quotes sent with failures." {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
	results, _ := body["results"].([]any)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %v", body["results"])
	}
	qs, err := env.store.ListQuotes()
	if err != nil || len(qs) != 1 {
		t.Fatalf("expected one stored quote, got %d err=%v", len(qs), err)
	}
	if qs[0].ClientID != withProfile.ID {
		t.Fatalf("stored quote belongs to wrong client: %+v", qs[0])
	}
}

func TestSendQuotesAllFailingIs500(t *testing.T) {
	env := newDocEnv(t)
	rec := httptest.NewRecorder()
	env.handler.SendQuotes(rec, httptest.NewRequest(http.MethodPost, "/quotes/send", strings.NewReader(`{"client_ids": [404]}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDownloadQuoteRendersStoredBody(t *testing.T) {
	env := newDocEnv(t)
	c := env.seedClient(t)
	stored := "<html><body>as originally sent</body></html>"
	q := &models.Quote{ClientID: c.ID, Number: fmt.Sprintf("%d-0001", c.ID), BodyHTML: stored}
	if err := env.store.CreateQuote(q); err != nil {
		t.Fatalf("create quote: %v", err)
	}

	rec := httptest.NewRecorder()
	env.handler.DownloadQuote(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/quotes/download?quote_id=%d", q.ID), nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	path, _ := body["path"].(string)
	if path == "" {
		t.Fatalf("expected saved path in response, got %v", body)
	}
	if env.renderer.rendered[path] != stored {
		t.Fatalf("download must re-render the stored body verbatim, rendered %q", env.renderer.rendered[path])
	}
}

func TestDownloadMissingInvoiceIs404(t *testing.T) {
	env := newDocEnv(t)
	rec := httptest.NewRecorder()
	env.handler.DownloadInvoice(rec, httptest.NewRequest(http.MethodGet, "/invoices/download?invoice_id=9", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
