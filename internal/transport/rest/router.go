package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/mustafakh994/forms-management/internal/access"
	"github.com/mustafakh994/forms-management/internal/audit"
	"github.com/mustafakh994/forms-management/internal/auth"
	"github.com/mustafakh994/forms-management/internal/department"
	"github.com/mustafakh994/forms-management/internal/form"
	"github.com/mustafakh994/forms-management/internal/permission"
	"github.com/mustafakh994/forms-management/internal/role"
	"github.com/mustafakh994/forms-management/internal/transport/middleware"
	"github.com/mustafakh994/forms-management/internal/transport/swagger"
	"github.com/mustafakh994/forms-management/internal/user"
	"github.com/mustafakh994/forms-management/internal/webhook"
)

// Permission names guarding management routes. Department admins get these
// through the seeded admin role; super admins bypass the checks entirely.
const (
	PermManageUsers    = "manage_users"
	PermManageRoles    = "manage_roles"
	PermManageForms    = "manage_forms"
	PermViewForms      = "view_forms"
	PermSubmitForms    = "submit_forms"
	PermViewAuditLog   = "view_audit_log"
	PermManageWebhooks = "manage_webhooks"
)

type Handlers struct {
	Auth       *auth.Handler
	Department *department.Handler
	Permission *permission.Handler
	Role       *role.Handler
	Access     *access.Handler
	User       *user.Handler
	Form       *form.Handler
	Webhook    *webhook.Handler
	Audit      *audit.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sqlx.DB, handlers Handlers, checker middleware.PermissionChecker, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
			sr.Post("/logout", handlers.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			pr.Post("/auth/change-password", handlers.Auth.ChangePassword)

			// Department lifecycle is platform-level management.
			pr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireSuperAdmin(logger))
				ar.Get("/departments", handlers.Department.GetDepartments)
				ar.Post("/departments", handlers.Department.CreateDepartment)
				ar.Patch("/departments/{id}", handlers.Department.UpdateDepartment)
				ar.Delete("/departments/{id}", handlers.Department.DeleteDepartment)

				ar.Get("/super-admins", handlers.User.GetSuperAdmins)
				ar.Post("/super-admins", handlers.User.CreateSuperAdmin)
				ar.Get("/super-admins/{id}", handlers.User.GetUser)
				ar.Patch("/super-admins/{id}", handlers.User.UpdateUser)
				ar.Delete("/super-admins/{id}", handlers.User.DeleteUser)
			})
			pr.Get("/departments/{id}", handlers.Department.GetDepartment)

			pr.Route("/departments/{departmentID}", func(dr chi.Router) {
				dr.Use(middleware.RequireDepartmentScope(logger))

				dr.Route("/permissions", func(cr chi.Router) {
					cr.Get("/", handlers.Permission.GetPermissions)
					cr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequirePermission(checker, logger, PermManageRoles))
						mr.Post("/", handlers.Permission.CreatePermission)
					})
				})

				dr.Route("/roles", func(cr chi.Router) {
					cr.Get("/", handlers.Role.GetRoles)
					cr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequirePermission(checker, logger, PermManageRoles))
						mr.Post("/", handlers.Role.CreateRole)
					})
				})

				dr.Route("/users", func(cr chi.Router) {
					cr.Use(middleware.RequirePermission(checker, logger, PermManageUsers))
					cr.Get("/", handlers.User.GetUsers)
					cr.Post("/", handlers.User.CreateUser)
				})

				dr.Route("/forms", func(cr chi.Router) {
					cr.Get("/", handlers.Form.GetForms)
					cr.Group(func(mr chi.Router) {
						mr.Use(middleware.RequirePermission(checker, logger, PermManageForms))
						mr.Post("/", handlers.Form.CreateForm)
					})
				})

				dr.Route("/webhooks", func(cr chi.Router) {
					cr.Use(middleware.RequirePermission(checker, logger, PermManageWebhooks))
					cr.Get("/", handlers.Webhook.GetEndpoints)
					cr.Post("/", handlers.Webhook.CreateEndpoint)
				})

				dr.Group(func(cr chi.Router) {
					cr.Use(middleware.RequirePermission(checker, logger, PermViewAuditLog))
					cr.Get("/audit-log", handlers.Audit.GetAuditLog)
				})
			})

			pr.Route("/permissions/{id}", func(cr chi.Router) {
				cr.Get("/", handlers.Permission.GetPermission)
				cr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, logger, PermManageRoles))
					mr.Patch("/", handlers.Permission.UpdatePermission)
					mr.Delete("/", handlers.Permission.DeletePermission)
				})
			})

			pr.Route("/roles/{id}", func(cr chi.Router) {
				cr.Get("/", handlers.Role.GetRole)
				cr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, logger, PermManageRoles))
					mr.Patch("/", handlers.Role.UpdateRole)
					mr.Delete("/", handlers.Role.DeleteRole)
					mr.Put("/permissions", handlers.Role.AssignPermissions)
				})
			})

			pr.Route("/users/{id}", func(cr chi.Router) {
				cr.Use(middleware.RequirePermission(checker, logger, PermManageUsers))
				cr.Get("/", handlers.User.GetUser)
				cr.Patch("/", handlers.User.UpdateUser)
				cr.Delete("/", handlers.User.DeleteUser)
				cr.Put("/role", handlers.User.AssignRole)
				cr.Delete("/role", handlers.User.UnassignRole)
			})

			pr.Route("/users/{userID}/permissions", func(cr chi.Router) {
				cr.Get("/", handlers.Access.GetEffectivePermissions)
				cr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, logger, PermManageUsers))
					mr.Get("/direct", handlers.Access.GetDirectGrants)
					mr.Post("/", handlers.Access.GrantPermission)
					mr.Delete("/{permissionID}", handlers.Access.RevokePermission)
				})
			})

			pr.Route("/forms/{id}", func(cr chi.Router) {
				cr.Group(func(vr chi.Router) {
					vr.Use(middleware.RequirePermission(checker, logger, PermViewForms))
					vr.Get("/", handlers.Form.GetForm)
					vr.Get("/submissions", handlers.Form.GetSubmissions)
					vr.Get("/versions", handlers.Form.GetSchemaVersions)
				})
				cr.Group(func(sr chi.Router) {
					sr.Use(middleware.RequirePermission(checker, logger, PermSubmitForms))
					sr.Post("/submissions", handlers.Form.SubmitForm)
				})
				cr.Group(func(mr chi.Router) {
					mr.Use(middleware.RequirePermission(checker, logger, PermManageForms))
					mr.Patch("/", handlers.Form.UpdateForm)
					mr.Delete("/", handlers.Form.DeleteForm)
					mr.Post("/permissions", handlers.Form.GrantFormPermission)
					mr.Delete("/permissions/{userID}/{permissionID}", handlers.Form.RevokeFormPermission)
				})
			})

			pr.Group(func(vr chi.Router) {
				vr.Use(middleware.RequirePermission(checker, logger, PermViewForms))
				vr.Get("/submissions/{submissionID}", handlers.Form.GetSubmission)
			})

			pr.Route("/webhooks/{id}", func(cr chi.Router) {
				cr.Use(middleware.RequirePermission(checker, logger, PermManageWebhooks))
				cr.Get("/", handlers.Webhook.GetEndpoint)
				cr.Patch("/", handlers.Webhook.UpdateEndpoint)
				cr.Delete("/", handlers.Webhook.DeleteEndpoint)
			})
		})
	})
}
