package form

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/transport"
)

type ServiceAPI interface {
	GetDepartmentForms(departmentID uuid.UUID) ([]*Form, error)
	GetForm(id uuid.UUID) (*Form, error)
	CreateForm(ctx context.Context, departmentID uuid.UUID, dto *CreateFormDTO, createdBy *uuid.UUID) (*Form, error)
	UpdateForm(ctx context.Context, id uuid.UUID, dto *UpdateFormDTO, updatedBy *uuid.UUID) (*Form, error)
	DeleteForm(ctx context.Context, id uuid.UUID) error
	SubmitForm(ctx context.Context, formID uuid.UUID, dto *SubmitFormDTO, userID *uuid.UUID, ipAddress, userAgent string) (*Submission, error)
	GetSubmissions(formID uuid.UUID, limit, offset int) ([]*Submission, error)
	GetSubmission(id uuid.UUID) (*Submission, error)
	GetSchemaVersions(formID uuid.UUID) ([]*SchemaVersion, error)
	GrantFormPermission(formID uuid.UUID, dto *GrantFormPermissionDTO) error
	RevokeFormPermission(formID, userID, permissionID uuid.UUID) error
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

func (h *Handler) GetForms(w http.ResponseWriter, r *http.Request) {
	departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	forms, err := h.Service.GetDepartmentForms(departmentID)
	if err != nil {
		h.Logger.Error("GetForms: service error", "error", err, "department_id", departmentID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, FormsResponse{Forms: forms})
}

func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	form, err := h.Service.GetForm(id)
	if err != nil {
		h.Logger.Error("GetForm: service error", "error", err, "form_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid department ID")
		return
	}

	var dto CreateFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateForm: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var createdBy *uuid.UUID
	if ident, ok := internal.IdentityFromContext(r.Context()); ok {
		createdBy = &ident.UserID
	}

	form, err := h.Service.CreateForm(r.Context(), departmentID, &dto, createdBy)
	if err != nil {
		h.Logger.Error("CreateForm: service error", "error", err, "department_id", departmentID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateForm: form created", "form_id", form.ID, "name", form.Name)
	h.WriteJSON(w, http.StatusCreated, form)
}

func (h *Handler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	var dto UpdateFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateForm: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var updatedBy *uuid.UUID
	if ident, ok := internal.IdentityFromContext(r.Context()); ok {
		updatedBy = &ident.UserID
	}

	form, err := h.Service.UpdateForm(r.Context(), id, &dto, updatedBy)
	if err != nil {
		h.Logger.Error("UpdateForm: service error", "error", err, "form_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, form)
}

func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	if err := h.Service.DeleteForm(r.Context(), id); err != nil {
		h.Logger.Error("DeleteForm: service error", "error", err, "form_id", id)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	var dto SubmitFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("SubmitForm: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var userID *uuid.UUID
	if ident, ok := internal.IdentityFromContext(r.Context()); ok {
		userID = &ident.UserID
	}

	submission, err := h.Service.SubmitForm(r.Context(), formID, &dto, userID, clientIP(r), r.UserAgent())
	if err != nil {
		h.Logger.Error("SubmitForm: service error", "error", err, "form_id", formID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("SubmitForm: submission created", "form_id", formID, "submission_id", submission.ID)
	h.WriteJSON(w, http.StatusCreated, submission)
}

func (h *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	limit := 20
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

	submissions, err := h.Service.GetSubmissions(formID, limit, offset)
	if err != nil {
		h.Logger.Error("GetSubmissions: service error", "error", err, "form_id", formID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SubmissionsResponse{Submissions: submissions})
}

func (h *Handler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "submissionID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	submission, err := h.Service.GetSubmission(id)
	if err != nil {
		h.Logger.Error("GetSubmission: service error", "error", err, "submission_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, submission)
}

func (h *Handler) GetSchemaVersions(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	versions, err := h.Service.GetSchemaVersions(formID)
	if err != nil {
		h.Logger.Error("GetSchemaVersions: service error", "error", err, "form_id", formID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, SchemaVersionsResponse{Versions: versions})
}

func (h *Handler) GrantFormPermission(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	var dto GrantFormPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("GrantFormPermission: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.UserID == uuid.Nil || dto.PermissionID == uuid.Nil {
		h.WriteError(w, http.StatusBadRequest, "user_id and permission_id are required")
		return
	}

	if err := h.Service.GrantFormPermission(formID, &dto); err != nil {
		h.Logger.Error("GrantFormPermission: service error", "error", err, "form_id", formID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokeFormPermission(w http.ResponseWriter, r *http.Request) {
	formID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form ID")
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	permissionID, err := uuid.Parse(chi.URLParam(r, "permissionID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission ID")
		return
	}

	if err := h.Service.RevokeFormPermission(formID, userID, permissionID); err != nil {
		h.Logger.Error("RevokeFormPermission: service error", "error", err, "form_id", formID)
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
