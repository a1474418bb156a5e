package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/plowline/backoffice/internal/store"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// Envelope is the standard success payload shape: a human-readable detail,
// optional named entities, and where the UI should navigate next.
func Envelope(detail, redirectTo string, entities map[string]any) map[string]any {
	out := map[string]any{"detail": detail}
	if redirectTo != "" {
		out["redirect_to"] = redirectTo
	}
	for k, v := range entities {
		out[k] = v
	}
	return out
}

// StoreError maps a store failure onto the right status: missing records are
// 404, everything else is a server fault.
func StoreError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, store.ErrNotFound) {
		JSONError(w, http.StatusNotFound, notFoundMsg, nil)
		return
	}
	JSONError(w, http.StatusInternalServerError, "internal_error", nil)
}
