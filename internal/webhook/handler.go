package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/transport"
)

type ServiceAPI interface {
	GetDepartmentEndpoints(departmentID uuid.UUID) ([]*Endpoint, error)
	GetEndpoint(id uuid.UUID) (*Endpoint, error)
	CreateEndpoint(departmentID uuid.UUID, dto *CreateEndpointDTO) (*Endpoint, error)
	UpdateEndpoint(id uuid.UUID, dto *UpdateEndpointDTO) (*Endpoint, error)
	DeleteEndpoint(id uuid.UUID) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetEndpoints(w http.ResponseWriter, r *http.Request) {
	departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	endpoints, err := h.Service.GetDepartmentEndpoints(departmentID)
	if err != nil {
		h.Logger.Error("GetEndpoints: service error", "error", err, "department_id", departmentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EndpointsResponse{Endpoints: endpoints})
}

func (h *Handler) GetEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid webhook endpoint ID")
		return
	}

	endpoint, err := h.Service.GetEndpoint(id)
	if err != nil {
		h.Logger.Error("GetEndpoint: service error", "error", err, "endpoint_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, endpoint)
}

func (h *Handler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	var dto CreateEndpointDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateEndpoint: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	endpoint, err := h.Service.CreateEndpoint(departmentID, &dto)
	if err != nil {
		h.Logger.Error("CreateEndpoint: service error", "error", err, "department_id", departmentID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEndpoint: webhook endpoint created", "endpoint_id", endpoint.ID, "url", endpoint.URL)
	h.WriteJSON(w, http.StatusCreated, endpoint)
}

func (h *Handler) UpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid webhook endpoint ID")
		return
	}

	var dto UpdateEndpointDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateEndpoint: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	endpoint, err := h.Service.UpdateEndpoint(id, &dto)
	if err != nil {
		h.Logger.Error("UpdateEndpoint: service error", "error", err, "endpoint_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, endpoint)
}

func (h *Handler) DeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid webhook endpoint ID")
		return
	}

	if err := h.Service.DeleteEndpoint(id); err != nil {
		h.Logger.Error("DeleteEndpoint: service error", "error", err, "endpoint_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
