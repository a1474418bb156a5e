package server

import (
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/plowline/backoffice/internal/handlers"
	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/mail"
	"github.com/plowline/backoffice/internal/pdf"
	"github.com/plowline/backoffice/internal/services"
	"github.com/plowline/backoffice/internal/store"
)

// New constructs the root http.Handler with all routes applied.
func New(db *gorm.DB, renderer pdf.Renderer, mailer mail.Mailer, log zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	st := store.New(db)
	assigner := services.NewAssigner(st)
	pipeline := services.NewDelivery(st, assigner, renderer, mailer, log)

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	listCreate := func(list, create http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				list(w, r)
			case http.MethodPost:
				create(w, r)
			default:
				w.Header().Set("Allow", "GET,POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			}
		}
	}
	postOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				w.Header().Set("Allow", "POST")
				httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
				return
			}
			h(w, r)
		}
	}

	ch := handlers.NewClientHandler(st)
	mux.HandleFunc("/clients", listCreate(ch.List, ch.Create))
	mux.HandleFunc("/clients/update", postOnly(ch.Update))
	mux.HandleFunc("/clients/delete", postOnly(ch.Delete))

	sh := handlers.NewServiceHandler(st)
	mux.HandleFunc("/services", listCreate(sh.List, sh.Create))
	mux.HandleFunc("/services/update", postOnly(sh.Update))
	mux.HandleFunc("/services/delete", postOnly(sh.Delete))

	ph := handlers.NewProfileHandler(st)
	mux.HandleFunc("/profiles", listCreate(ph.Get, ph.Save))

	dh := handlers.NewDocumentHandler(st, pipeline, renderer)
	mux.HandleFunc("/quotes", dh.ListQuotes)
	mux.HandleFunc("/quotes/send", postOnly(dh.SendQuotes))
	mux.HandleFunc("/quotes/download", dh.DownloadQuote)
	mux.HandleFunc("/invoices", dh.ListInvoices)
	mux.HandleFunc("/invoices/send", postOnly(dh.SendInvoice))
	mux.HandleFunc("/invoices/download", dh.DownloadInvoice)

	seth := handlers.NewSettingHandler(st)
	mux.HandleFunc("/settings", listCreate(seth.List, seth.Update))

	return mux
}
