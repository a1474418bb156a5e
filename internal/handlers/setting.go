package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/datatypes"

	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/settings"
	"github.com/plowline/backoffice/internal/store"
)

// SettingHandler exposes the settings table. Updates are validated against
// the typed settings loader before being accepted, so a bad value cannot be
// stored and then break a later send.
type SettingHandler struct {
	Store *store.Store
}

func NewSettingHandler(st *store.Store) *SettingHandler { return &SettingHandler{Store: st} }

type settingReq struct {
	ID    string          `json:"id" validate:"required"`
	Value json.RawMessage `json:"value" validate:"required"`
}

// List: GET /settings
func (h *SettingHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListSettings()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_settings", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

// Update: POST /settings
func (h *SettingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	prev, err := h.Store.GetSetting(req.ID)
	if err != nil {
		httpx.StoreError(w, err, "setting_not_found")
		return
	}
	if err := h.Store.UpdateSettingValue(req.ID, datatypes.JSON(req.Value)); err != nil {
		httpx.StoreError(w, err, "setting_not_found")
		return
	}
	// A value the typed loader cannot read must not stay stored: restore
	// the previous value and reject.
	if _, err := settings.Load(h.Store); err != nil {
		_ = h.Store.UpdateSettingValue(req.ID, prev.Value)
		httpx.JSONError(w, http.StatusUnprocessableEntity, "invalid_setting_value", map[string]string{req.ID: err.Error()})
		return
	}
	row, err := h.Store.GetSetting(req.ID)
	if err != nil {
		httpx.StoreError(w, err, "setting_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Setting updated successfully.", "/settings", map[string]any{"setting": row}))
}
