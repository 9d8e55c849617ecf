package middleware

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/mustafakh994/forms-management/internal"
)

// PermissionChecker is satisfied by the access resolver service.
type PermissionChecker interface {
	HasPermission(userID uuid.UUID, permissionName string) (bool, error)
}

// RequirePermission guards a route behind one named permission from the
// caller's effective set. Super admins pass every check.
func RequirePermission(checker PermissionChecker, logger *slog.Logger, permissionName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			allowed, err := checker.HasPermission(ident.UserID, permissionName)
			if err != nil {
				logger.Error("permission check failed",
					"user_id", ident.UserID,
					"permission", permissionName,
					"error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				logger.Warn("access denied",
					"user_id", ident.UserID,
					"permission", permissionName)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin restricts a route to super admin callers.
func RequireSuperAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !ident.IsSuperAdmin {
				logger.Warn("access denied: super admin required", "user_id", ident.UserID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireDepartmentScope rejects callers whose identity is not scoped to the
// department named in the route. Super admins are in scope everywhere.
func RequireDepartmentScope(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := internal.IdentityFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			departmentID, err := uuid.Parse(chi.URLParam(r, "departmentID"))
			if err != nil {
				http.Error(w, "invalid department ID", http.StatusBadRequest)
				return
			}

			if !ident.SameDepartment(departmentID) {
				logger.Warn("access denied: wrong department",
					"user_id", ident.UserID,
					"department_id", departmentID)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
