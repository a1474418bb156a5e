package handlers

import (
	"net/http"

	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/store"
)

// ClientHandler serves client CRUD. List/Create on /clients, Update/Delete
// on /clients/update and /clients/delete.
type ClientHandler struct {
	Store *store.Store
}

func NewClientHandler(st *store.Store) *ClientHandler { return &ClientHandler{Store: st} }

type clientReq struct {
	Name          string `json:"name" validate:"required"`
	BusinessName  string `json:"business_name" validate:"required"`
	StreetAddress string `json:"street_address" validate:"required"`
	City          string `json:"city" validate:"required"`
	State         string `json:"state" validate:"required"`
	ZipCode       string `json:"zip_code" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone"`
}

func (req *clientReq) toModel() models.Client {
	return models.Client{
		Name:          req.Name,
		BusinessName:  req.BusinessName,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Email:         req.Email,
		Phone:         req.Phone,
	}
}

// List: GET /clients
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	clients, err := h.Store.ListClients()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_clients", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": clients, "total": len(clients)})
}

// Create: POST /clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req clientReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c := req.toModel()
	if err := h.Store.CreateClient(&c); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_client", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Envelope("Client created successfully.", "/clients", map[string]any{"client": c}))
}

// Update: POST /clients/update?id=...
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req clientReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	c := req.toModel()
	c.ID = id
	if err := h.Store.UpdateClient(&c); err != nil {
		httpx.StoreError(w, err, "client_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Client updated successfully.", "/clients", map[string]any{"client": c}))
}

// Delete: POST /clients/delete?id=... — cascades the quote profile.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Store.DeleteClient(id); err != nil {
		httpx.StoreError(w, err, "client_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Client deleted successfully.", "/clients", nil))
}
