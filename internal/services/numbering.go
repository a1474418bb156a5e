package services

import (
	"fmt"

	"github.com/plowline/backoffice/internal/docgen"
	"github.com/plowline/backoffice/internal/store"
)

// Assigner computes the next sequential document number for a client.
// The count-then-format sequence is only safe when callers serialize sends
// per client; the delivery pipeline holds a per-client lock around it.
type Assigner struct {
	store *store.Store
}

func NewAssigner(st *store.Store) *Assigner { return &Assigner{store: st} }

// NextNumber returns "{clientID}-{NNNN}" where NNNN is one plus the number
// of persisted documents of that type for the client, zero-padded to four
// digits. With three existing invoices for client 7, the next invoice is
// "7-0004".
func (a *Assigner) NextNumber(clientID uint, t docgen.DocType) (string, error) {
	var (
		n   int64
		err error
	)
	switch t {
	case docgen.TypeQuote:
		n, err = a.store.CountQuotesByClient(clientID)
	case docgen.TypeInvoice:
		n, err = a.store.CountInvoicesByClient(clientID)
	default:
		return "", fmt.Errorf("unknown document type %q", t)
	}
	if err != nil {
		return "", fmt.Errorf("count %ss for client %d: %w", t, clientID, err)
	}
	return fmt.Sprintf("%d-%04d", clientID, n+1), nil
}
