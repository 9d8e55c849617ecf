package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

// Identity is the caller context resolved by the auth layer: who is calling,
// which department they belong to (nil for super admins) and their role name.
type Identity struct {
	UserID       uuid.UUID
	DepartmentID *uuid.UUID
	RoleName     string
	IsSuperAdmin bool
}

// SameDepartment reports whether the identity is scoped to the given
// department. Super admins are in scope everywhere.
func (i *Identity) SameDepartment(departmentID uuid.UUID) bool {
	if i.IsSuperAdmin {
		return true
	}
	return i.DepartmentID != nil && *i.DepartmentID == departmentID
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	ident, ok := ctx.Value(ContextIdentityKey).(*Identity)
	return ident, ok && ident != nil
}

func ContextWithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, ident)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
