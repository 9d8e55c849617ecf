package access

import (
	"time"

	"github.com/google/uuid"
)

// Grant sources, in resolution order. A permission held both ways is
// reported once with the role source.
const (
	SourceRole   = "role"
	SourceDirect = "direct"
	SourceForm   = "form"
)

// EffectivePermission is one entry of a user's resolved permission set.
type EffectivePermission struct {
	PermissionID uuid.UUID `json:"permission_id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Resource     string    `json:"resource"`
	Action       string    `json:"action"`
	Source       string    `json:"source"`
}

// DirectGrant describes a user-level grant row for API responses.
type DirectGrant struct {
	PermissionID uuid.UUID  `json:"permission_id"`
	Name         string     `json:"name"`
	GrantedBy    *uuid.UUID `json:"granted_by,omitempty"`
	GrantedAt    time.Time  `json:"granted_at"`
}
