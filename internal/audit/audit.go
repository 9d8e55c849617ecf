package audit

import (
	"time"

	"github.com/google/uuid"
	auditDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/audit"
)

// Actions recorded by the write paths that mutate access control state.
const (
	ActionPermissionGranted = "permission.granted"
	ActionPermissionRevoked = "permission.revoked"
	ActionRoleAssigned      = "role.assigned"
	ActionRolePermissionSet = "role.permissions_set"
	ActionUserCreated       = "user.created"
	ActionUserDeleted       = "user.deleted"
	ActionFormDeleted       = "form.deleted"
)

type Entry struct {
	ID           uuid.UUID  `json:"id"`
	DepartmentID uuid.UUID  `json:"department_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Action       string     `json:"action"`
	ResourceType string     `json:"resource_type"`
	ResourceID   *uuid.UUID `json:"resource_id,omitempty"`
	Details      *string    `json:"details,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func FromDataModel(l *auditDatamodel.Log) *Entry {
	return &Entry{
		ID:           l.ID,
		DepartmentID: l.DepartmentID,
		UserID:       l.UserID,
		Action:       l.Action,
		ResourceType: l.ResourceType,
		ResourceID:   l.ResourceID,
		Details:      l.Details,
		CreatedAt:    l.CreatedAt,
	}
}
