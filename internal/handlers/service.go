package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/plowline/backoffice/internal/httpx"
	"github.com/plowline/backoffice/internal/models"
	"github.com/plowline/backoffice/internal/store"
)

// ServiceHandler serves the service catalog.
type ServiceHandler struct {
	Store *store.Store
}

func NewServiceHandler(st *store.Store) *ServiceHandler { return &ServiceHandler{Store: st} }

type serviceReq struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	UnitPrice   string `json:"unit_price" validate:"required"`
}

// List: GET /services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	svcs, err := h.Store.ListServices()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_services", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": svcs, "total": len(svcs)})
}

// Create: POST /services
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req serviceReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"unit_price": "not_a_number"})
		return
	}
	svc := models.Service{Name: req.Name, Description: req.Description, UnitPrice: price}
	if err := h.Store.CreateService(&svc); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_service", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, httpx.Envelope("Service created successfully.", "/services", map[string]any{"service": svc}))
}

// Update: POST /services/update?id=...
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req serviceReq
	if !decodeAndValidate(w, r, &req) {
		return
	}
	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", map[string]string{"unit_price": "not_a_number"})
		return
	}
	svc := models.Service{ID: id, Name: req.Name, Description: req.Description, UnitPrice: price}
	if err := h.Store.UpdateService(&svc); err != nil {
		httpx.StoreError(w, err, "service_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Service updated successfully.", "/services", map[string]any{"service": svc}))
}

// Delete: POST /services/delete?id=...
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := queryID(r, "id")
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := h.Store.DeleteService(id); err != nil {
		httpx.StoreError(w, err, "service_not_found")
		return
	}
	httpx.JSON(w, http.StatusOK, httpx.Envelope("Service deleted successfully.", "/services", nil))
}
