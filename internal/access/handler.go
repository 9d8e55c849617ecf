package access

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/transport"
)

type ServiceAPI interface {
	ListEffectivePermissions(userID uuid.UUID) ([]*EffectivePermission, error)
	ListDirectGrants(userID uuid.UUID) ([]*DirectGrant, error)
	HasPermission(userID uuid.UUID, permissionName string) (bool, error)
	GrantDirect(userID, permissionID uuid.UUID, grantedBy *uuid.UUID) error
	RevokeDirect(userID, permissionID uuid.UUID) error
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

type GrantPermissionDTO struct {
	PermissionID uuid.UUID `json:"permission_id"`
}

type EffectivePermissionsResponse struct {
	UserID      uuid.UUID              `json:"user_id"`
	Permissions []*EffectivePermission `json:"permissions"`
}

type DirectGrantsResponse struct {
	UserID uuid.UUID      `json:"user_id"`
	Grants []*DirectGrant `json:"grants"`
}

func (h *Handler) GetEffectivePermissions(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	permissions, err := h.Service.ListEffectivePermissions(userID)
	if err != nil {
		h.Logger.Error("GetEffectivePermissions: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EffectivePermissionsResponse{
		UserID:      userID,
		Permissions: permissions,
	})
}

func (h *Handler) GetDirectGrants(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	grants, err := h.Service.ListDirectGrants(userID)
	if err != nil {
		h.Logger.Error("GetDirectGrants: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DirectGrantsResponse{
		UserID: userID,
		Grants: grants,
	})
}

func (h *Handler) GrantPermission(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto GrantPermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("GrantPermission: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if dto.PermissionID == uuid.Nil {
		h.WriteError(w, http.StatusBadRequest, "permission_id is required")
		return
	}

	var grantedBy *uuid.UUID
	if ident, ok := internal.IdentityFromContext(r.Context()); ok {
		grantedBy = &ident.UserID
	}

	if err := h.Service.GrantDirect(userID, dto.PermissionID, grantedBy); err != nil {
		h.Logger.Error("GrantPermission: service error", "error", err, "user_id", userID, "permission_id", dto.PermissionID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("GrantPermission: permission granted", "user_id", userID, "permission_id", dto.PermissionID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RevokePermission(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Service.RevokeDirect(userID, permissionID); err != nil {
		h.Logger.Error("RevokePermission: service error", "error", err, "user_id", userID, "permission_id", permissionID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("RevokePermission: permission revoked", "user_id", userID, "permission_id", permissionID)
	w.WriteHeader(http.StatusNoContent)
}
