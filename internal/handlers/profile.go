package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/store"
)

// ProfileHandler serves a client's saved quote profile: one per client,
// created or replaced in full on save.
type ProfileHandler struct {
	Store *store.Store
}

func NewProfileHandler(st *store.Store) *ProfileHandler { return &ProfileHandler{Store: st} }

type profileReq struct {
	ClientID            uint              `json:"client_id" validate:"required"`
	MinMonthlyCharge    string            `json:"min_monthly_charge" validate:"required"`
	PremiumSaltUpcharge string            `json:"premium_salt_upcharge" validate:"required"`
	Lines               []models.LineItem `json:"lines" validate:"required,min=1"`
	GrandTotal          string            `json:"grand_total" validate:"required"`
}

// Get: GET /profiles?client_id=...
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	clientID, ok := queryID(r, "client_id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_client_id", nil)
		return
	}
	p, err := h.Store.GetProfile(clientID)
	if err != nil {
		httpx.StoreError(w, err, "profile_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Profile found.", "", map[string]any{"profile": p}))
}

// Save: POST /profiles — upsert keyed by client id.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req profileReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if _, err := h.Store.GetClient(req.ClientID); err != nil {
		httpx.StoreError(w, err, "client_not_found")
		return
	}
	minCharge, err := decimal.NewFromString(req.MinMonthlyCharge)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"min_monthly_charge": "not_a_number"})
		return
	}
	saltUp, err := decimal.NewFromString(req.PremiumSaltUpcharge)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"premium_salt_upcharge": "not_a_number"})
		return
	}
	grandTotal, err := decimal.NewFromString(req.GrandTotal)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"grand_total": "not_a_number"})
		return
	}
	p := models.QuoteProfile{
		ClientID:            req.ClientID,
		MinMonthlyCharge:    minCharge,
		PremiumSaltUpcharge: saltUp,
		Lines:               datatypes.NewJSONSlice(req.Lines),
		GrandTotal:          grandTotal,
	}
	if err := h.Store.SaveProfile(&p); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_save_profile", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Profile saved successfully.", "/quotes", map[string]any{"profile": p}))
}
