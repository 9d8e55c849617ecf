package audit

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal/transport"
)

type ServiceAPI interface {
	List(departmentID uuid.UUID, limit, offset int) ([]*Entry, error)
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

type EntriesResponse struct {
	Entries []*Entry `json:"entries"`
}

func (h *Handler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	limit := 50
	offset := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	entries, err := h.Service.List(departmentID, limit, offset)
	if err != nil {
		h.Logger.Error("GetAuditLog: service error", "error", err, "department_id", departmentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EntriesResponse{Entries: entries})
}
