package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/plowline/backoffice/internal/docgen"
	"github.com/plowline/backoffice/internal/mail"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/pdf"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

// SendState is where a document send is in the pipeline. A send walks
// draft → numbered → rendered → emailed → persisted; any step failure stops
// there. Side effects of completed steps are not rolled back: an email
// already sent stays sent even if persistence then fails.
type SendState string

const (
	StateDraft     SendState = "draft"
	StateNumbered  SendState = "numbered"
	StateRendered  SendState = "rendered"
	StateEmailed   SendState = "emailed"
	StatePersisted SendState = "persisted"
	StateFailed    SendState = "failed"
)

// SendResult reports one client's send. On failure State is StateFailed and
// Reached records the last step that completed.
type SendResult struct {
	ClientID uint
	Type     docgen.DocType
	Number   string
	State    SendState
	Reached  SendState
	Err      error
}

// Delivery coordinates the end-to-end send of a quote or invoice: resolve
// inputs, assign a number, generate HTML, rasterize the PDF, email it, then
// persist the record. Numbering through persistence runs under a per-client
// lock so concurrent sends for one client cannot claim the same number.
type Delivery struct {
	store    *store.Store
	assigner *Assigner
	renderer pdf.Renderer
	mailer   mail.Mailer
	log      zerolog.Logger

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewDelivery(st *store.Store, a *Assigner, r pdf.Renderer, m mail.Mailer, log zerolog.Logger) *Delivery {
	return &Delivery{
		store:    st,
		assigner: a,
		renderer: r,
		mailer:   m,
		log:      log,
		locks:    map[uint]*sync.Mutex{},
	}
}

func (d *Delivery) clientLock(clientID uint) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	l, ok := d.locks[clientID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[clientID] = l
	}
	return l
}

// SendQuote sends one quote built from the client's saved quote profile.
func (d *Delivery) SendQuote(ctx context.Context, clientID uint) SendResult {
	client, err := d.store.GetClient(clientID)
	if err != nil {
		return d.failed(clientID, docgen.TypeQuote, StateDraft, fmt.Errorf("resolve client %d: %w", clientID, err))
	}
	profile, err := d.store.GetProfile(clientID)
	if err != nil {
		return d.failed(clientID, docgen.TypeQuote, StateDraft, fmt.Errorf("resolve quote profile for client %d: %w", clientID, err))
	}
	return d.send(ctx, docgen.TypeQuote, client, profile.Lines, profile.GrandTotal, profile.MinMonthlyCharge, profile.PremiumSaltUpcharge)
}

// SendQuotes sends quotes to each client in order. One client's failure does
// not abort or roll back the others; every client gets a result.
func (d *Delivery) SendQuotes(ctx context.Context, clientIDs []uint) []SendResult {
	results := make([]SendResult, 0, len(clientIDs))
	for _, id := range clientIDs {
		results = append(results, d.SendQuote(ctx, id))
	}
	return results
}

// SendInvoice sends one invoice built from ad hoc line items.
func (d *Delivery) SendInvoice(ctx context.Context, clientID uint, lines []models.LineItem, grandTotal decimal.Decimal) SendResult {
	client, err := d.store.GetClient(clientID)
	if err != nil {
		return d.failed(clientID, docgen.TypeInvoice, StateDraft, fmt.Errorf("resolve client %d: %w", clientID, err))
	}
	return d.send(ctx, docgen.TypeInvoice, client, lines, grandTotal, decimal.Zero, decimal.Zero)
}

func (d *Delivery) send(ctx context.Context, t docgen.DocType, client *models.Client, lines []models.LineItem, grandTotal, minMonthly, saltUpcharge decimal.Decimal) SendResult {
	cfg, err := settings.Load(d.store)
	if err != nil {
		return d.failed(client.ID, t, StateDraft, fmt.Errorf("load settings: %w", err))
	}

	lock := d.clientLock(client.ID)
	lock.Lock()
	defer lock.Unlock()

	number, err := d.assigner.NextNumber(client.ID, t)
	if err != nil {
		return d.failed(client.ID, t, StateDraft, err)
	}
	fail := func(reached SendState, err error) SendResult {
		r := d.failed(client.ID, t, reached, err)
		r.Number = number
		return r
	}

	issueDate := time.Now()
	html, err := docgen.Generate(docgen.Input{
		Type:                t,
		Client:              client,
		Number:              number,
		IssueDate:           issueDate,
		Lines:               lines,
		GrandTotal:          grandTotal,
		MinMonthlyCharge:    minMonthly,
		PremiumSaltUpcharge: saltUpcharge,
		LogoPath:            cfg.DocumentLogoPath,
	})
	if err != nil {
		return fail(StateNumbered, fmt.Errorf("generate document: %w", err))
	}

	pdfPath := filepath.Join(cfg.PDFSavePath, DocumentFileName(t, client.Name, number))
	if err := d.renderer.Render(ctx, html, pdfPath); err != nil {
		return fail(StateNumbered, err)
	}

	body := cfg.QuoteEmailBody
	subject := fmt.Sprintf("Quote %s", number)
	if t == docgen.TypeInvoice {
		body = cfg.InvoiceEmailBody
		subject = fmt.Sprintf("Invoice %s", number)
	}
	msg := mail.Message{
		Subject:     subject,
		To:          []string{client.Email},
		Body:        mail.RenderBody(body, client),
		Attachments: []string{pdfPath},
	}
	if err := d.mailer.Send(ctx, msg); err != nil {
		return fail(StateRendered, err)
	}

	// Persist only after rendering and email succeeded. A failure here
	// leaves the email sent with no stored record; that is reported, not
	// rolled back.
	switch t {
	case docgen.TypeQuote:
		err = d.store.CreateQuote(&models.Quote{ClientID: client.ID, Number: number, IssueDate: issueDate, BodyHTML: html})
	case docgen.TypeInvoice:
		err = d.store.CreateInvoice(&models.Invoice{ClientID: client.ID, Number: number, IssueDate: issueDate, BodyHTML: html})
	}
	if err != nil {
		return fail(StateEmailed, fmt.Errorf("persist %s %s: %w", t, number, err))
	}

	d.log.Info().Uint("client_id", client.ID).Str("type", string(t)).Str("number", number).Msg("document sent")
	return SendResult{ClientID: client.ID, Type: t, Number: number, State: StatePersisted, Reached: StatePersisted}
}

func (d *Delivery) failed(clientID uint, t docgen.DocType, reached SendState, err error) SendResult {
	d.log.Error().Uint("client_id", clientID).Str("type", string(t)).Str("reached", string(reached)).Err(err).Msg("document send failed")
	return SendResult{ClientID: clientID, Type: t, State: StateFailed, Reached: reached, Err: err}
}

// DocumentFileName builds the attachment file name, e.g.
// "quote_Jane_Doe_7-0004.pdf".
func DocumentFileName(t docgen.DocType, clientName, number string) string {
	return fmt.Sprintf("%s_%s_%s.pdf", t, strings.ReplaceAll(clientName, " ", "_"), number)
}
