package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/plowline/backoffice/internal/mail"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

type fakeRenderer struct {
	err      error
	rendered map[string]string // dest path -> html
}

func newFakeRenderer() *fakeRenderer { return &fakeRenderer{rendered: map[string]string{}} }

func (f *fakeRenderer) Render(_ context.Context, html, destPath string) error {
	if f.err != nil {
		return f.err
	}
	f.rendered[destPath] = html
	return nil
}

type fakeMailer struct {
	err  error
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func seedSettings(t *testing.T, st *store.Store, pdfPath string) {
	t.Helper()
	for _, row := range settings.Defaults() {
		if err := st.SeedSetting(row); err != nil {
			t.Fatalf("seed setting %s: %v", row.ID, err)
		}
	}
	val, _ := json.Marshal(pdfPath)
	if err := st.UpdateSettingValue(settings.KeyPDFSavePath, val); err != nil {
		t.Fatalf("set pdf path: %v", err)
	}
}

func seedDeliveryClient(t *testing.T, st *store.Store) *models.Client {
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
	if err := st.CreateClient(c); err != nil {
		t.Fatalf("create client: %v", err)
	}
	return c
}

func plowingLines() []models.LineItem {
	return []models.LineItem{{
		ServiceName: "Plowing",
		Quantity:    "1",
		PerUnit:     "per event",
		UnitPrice:   "50.00",
		Tax:         "0",
		TotalPrice:  "50.00",
	}}
}

func newDelivery(st *store.Store, r *fakeRenderer, m *fakeMailer) *Delivery {
	return NewDelivery(st, NewAssigner(st), r, m, zerolog.Nop())
}

func TestSendInvoiceHappyPath(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	renderer := newFakeRenderer()
	mailer := &fakeMailer{}
	d := newDelivery(st, renderer, mailer)

	res := d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
	if res.Err != nil || res.State != StatePersisted {
		t.Fatalf("expected persisted, got state=%s err=%v", res.State, res.Err)
	}
	if res.Number == "" {
		t.Fatalf("expected an assigned number")
	}

	// The email carries the rendered PDF and the substituted body.
	if len(mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(mailer.sent))
	}
	msg := mailer.sent[0]
	if msg.To[0] != c.Email {
		t.Fatalf("email recipient: got %v", msg.To)
	}
	if !strings.Contains(msg.Body, "Jane Doe") || !strings.Contains(msg.Body, "12 Birch Rd") {
		t.Fatalf("placeholders not substituted in body: %q", msg.Body)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %v", msg.Attachments)
	}

	// The persisted record stores the exact HTML that was rasterized, so a
	// later re-render reproduces the sent document byte for byte.
	invs, err := st.ListInvoices()
	if err != nil || len(invs) != 1 {
		t.Fatalf("expected 1 invoice, got %d err=%v", len(invs), err)
	}
	rendered, ok := renderer.rendered[msg.Attachments[0]]
	if !ok {
		t.Fatalf("attachment path %s was never rendered", msg.Attachments[0])
	}
	if invs[0].BodyHTML != rendered {
		t.Fatal("stored HTML differs from the rendered HTML")
	}
	if invs[0].Number != res.Number {
		t.Fatalf("stored number %s != result number %s", invs[0].Number, res.Number)
	}
	if invs[0].IssueDate.IsZero() {
		t.Fatal("issue date must default to the send time")
	}
}

func TestDocumentsCarryHeaderLogo(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	renderer := newFakeRenderer()
	d := newDelivery(st, renderer, &fakeMailer{})

	res := d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
	if res.Err != nil {
		t.Fatalf("send: %v", res.Err)
	}
	cfg, err := settings.Load(st)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	var html string
	for _, v := range renderer.rendered {
		html = v
	}
	if !strings.Contains(html, "<img") || !strings.Contains(html, cfg.DocumentLogoPath) {
		t.Fatalf("rendered document must carry the configured header logo, got:\n%s", html)
	}
}

func TestConcurrentSendsForOneClientGetDistinctNumbers(t *testing.T) {
	// Single connection, as with the production sqlite file; the per-client
	// lock is what keeps count-then-insert from double-assigning a number.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Client{}, &models.QuoteProfile{}, &models.Quote{}, &models.Invoice{}, &models.AppSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	st := store.New(db)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	d := newDelivery(st, newFakeRenderer(), &fakeMailer{})

	const sends = 8
	results := make([]SendResult, sends)
	var wg sync.WaitGroup
	for i := 0; i < sends; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("send %d: %v", i, res.Err)
		}
		if seen[res.Number] {
			t.Fatalf("number %s assigned twice", res.Number)
		}
		seen[res.Number] = true
	}
	if n, _ := st.CountInvoicesByClient(c.ID); n != sends {
		t.Fatalf("expected %d persisted invoices, got %d", sends, n)
	}
}

func TestRenderFailureSendsNoEmailAndPersistsNothing(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	renderer := newFakeRenderer()
	renderer.err = errors.New("wkhtmltopdf exploded")
	mailer := &fakeMailer{}
	d := newDelivery(st, renderer, mailer)

	res := d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
	if res.State != StateFailed || res.Reached != StateNumbered {
		t.Fatalf("expected failure after numbering, got state=%s reached=%s", res.State, res.Reached)
	}
	if len(mailer.sent) != 0 {
		t.Fatal("no email may be sent when PDF rendering fails")
	}
	if n, _ := st.CountInvoicesByClient(c.ID); n != 0 {
		t.Fatalf("no invoice row may be created, got %d", n)
	}
}

func TestEmailFailurePersistsNothing(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	renderer := newFakeRenderer()
	mailer := &fakeMailer{err: errors.New("smtp refused")}
	d := newDelivery(st, renderer, mailer)

	res := d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
	if res.State != StateFailed || res.Reached != StateRendered {
		t.Fatalf("expected failure after rendering, got state=%s reached=%s", res.State, res.Reached)
	}
	if n, _ := st.CountInvoicesByClient(c.ID); n != 0 {
		t.Fatalf("no invoice row may be created, got %d", n)
	}
	// The PDF was already written; that side effect is not rolled back.
	if len(renderer.rendered) != 1 {
		t.Fatalf("expected the PDF side effect to remain, got %d", len(renderer.rendered))
	}
}

func TestRepeatedSendsNumberSequentially(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	c := seedDeliveryClient(t, st)
	d := newDelivery(st, newFakeRenderer(), &fakeMailer{})

	for i := 1; i <= 3; i++ {
		res := d.SendInvoice(context.Background(), c.ID, plowingLines(), decimal.RequireFromString("50.00"))
		if res.Err != nil {
			t.Fatalf("send %d: %v", i, res.Err)
		}
		if want := len(res.Number); want == 0 {
			t.Fatalf("send %d: missing number", i)
		}
	}
	invs, _ := st.ListInvoices()
	seen := map[string]bool{}
	for _, inv := range invs {
		if seen[inv.Number] {
			t.Fatalf("duplicate number %s", inv.Number)
		}
		seen[inv.Number] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected 3 distinct numbers, got %d", len(seen))
	}
}

func TestClientLockIsPerClient(t *testing.T) {
	st := setupStore(t)
	d := newDelivery(st, newFakeRenderer(), &fakeMailer{})
	if d.clientLock(1) != d.clientLock(1) {
		t.Fatal("same client must share one lock")
	}
	if d.clientLock(1) == d.clientLock(2) {
		t.Fatal("different clients must not share a lock")
	}
}

func TestBatchQuoteSendContinuesPastFailures(t *testing.T) {
	st := setupStore(t)
	seedSettings(t, st, t.TempDir())
	withProfile := seedDeliveryClient(t, st)
	noProfile := seedDeliveryClient(t, st)
	p := &models.QuoteProfile{
		ClientID:            withProfile.ID,
		MinMonthlyCharge:    decimal.NewFromInt(200),
		PremiumSaltUpcharge: decimal.NewFromInt(35),
		Lines:               datatypes.NewJSONSlice(plowingLines()),
		GrandTotal:          decimal.RequireFromString("50.00"),
	}
	if err := st.SaveProfile(p); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	d := newDelivery(st, newFakeRenderer(), &fakeMailer{})
	results := d.SendQuotes(context.Background(), []uint{noProfile.ID, withProfile.ID})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].State != StateFailed || results[0].Reached != StateDraft {
		t.Fatalf("client without profile should fail at draft, got %+v", results[0])
	}
	if results[1].State != StatePersisted {
		t.Fatalf("second client must still be processed, got %+v", results[1])
	}
	if n, _ := st.CountQuotesByClient(withProfile.ID); n != 1 {
		t.Fatalf("expected 1 quote persisted, got %d", n)
	}
}
