package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mustafakh994/forms-management/internal"
	"github.com/mustafakh994/forms-management/internal/access"
	accessPostgres "github.com/mustafakh994/forms-management/internal/access/postgres"
	"github.com/mustafakh994/forms-management/internal/audit"
	auditSqlstore "github.com/mustafakh994/forms-management/internal/audit/sqlstore"
	"github.com/mustafakh994/forms-management/internal/auth"
	authPostgres "github.com/mustafakh994/forms-management/internal/auth/postgres"
	"github.com/mustafakh994/forms-management/internal/core/events"
	"github.com/mustafakh994/forms-management/internal/department"
	departmentPostgres "github.com/mustafakh994/forms-management/internal/department/postgres"
	"github.com/mustafakh994/forms-management/internal/form"
	formPostgres "github.com/mustafakh994/forms-management/internal/form/postgres"
	"github.com/mustafakh994/forms-management/internal/permission"
	permissionPostgres "github.com/mustafakh994/forms-management/internal/permission/postgres"
	"github.com/mustafakh994/forms-management/internal/role"
	rolePostgres "github.com/mustafakh994/forms-management/internal/role/postgres"
	"github.com/mustafakh994/forms-management/internal/transport"
	"github.com/mustafakh994/forms-management/internal/transport/rest"
	"github.com/mustafakh994/forms-management/internal/user"
	userPostgres "github.com/mustafakh994/forms-management/internal/user/postgres"
	"github.com/mustafakh994/forms-management/internal/webhook"
	webhookPostgres "github.com/mustafakh994/forms-management/internal/webhook/postgres"
	"github.com/mustafakh994/forms-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Access   *access.Service
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	// Fail fast on a broken published API document.
	if _, err := rest.LoadOpenAPISpec(context.Background(), "./api/openapi.yml"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load OpenAPI spec: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB, deps.Handlers, deps.Access, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGormDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(log)

	// repositories
	departmentRepo := departmentPostgres.NewDepartmentRepository(gormDB)
	permissionRepo := permissionPostgres.NewPermissionRepository(gormDB)
	roleRepo := rolePostgres.NewRoleRepository(gormDB)
	accessRepo := accessPostgres.NewAccessRepository(gormDB)
	authRepo := authPostgres.NewAuthRepository(gormDB)
	userRepo := userPostgres.NewUserRepository(gormDB)
	formRepo := formPostgres.NewFormRepository(gormDB)
	webhookRepo := webhookPostgres.NewWebhookRepository(gormDB)
	auditStore := auditSqlstore.NewAuditStore(db)

	// services
	auditService := audit.NewService(auditStore, log)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGenerator, config.Security.BCryptCost, log)

	departmentService := department.NewService(departmentRepo, log)
	permissionService := permission.NewService(permissionRepo, log)
	roleService := role.NewService(roleRepo, auditService, log)
	accessService := access.NewService(accessRepo, auditService, log)
	userService := user.NewService(userRepo, authService, auditService, log)
	formService := form.NewService(formRepo, eventBus, log)
	webhookService := webhook.NewService(webhookRepo, log)

	// webhook fan-out and audit trail ride the event bus
	dispatcher := webhook.NewDispatcher(webhookRepo, config.Webhook.DeliveryTimeoutOrDefault(), log)
	webhook.NewEventHandler(dispatcher, log).RegisterHandlers(eventBus)
	audit.NewEventHandler(auditService, log).RegisterHandlers(eventBus)

	if err := authService.EnsureSuperAdmin(
		config.Bootstrap.SuperAdminEmail,
		config.Bootstrap.SuperAdminPassword,
		config.Bootstrap.SuperAdminName,
	); err != nil {
		return nil, fmt.Errorf("failed to ensure super admin account: %w", err)
	}

	baseHandler := transport.NewBaseHandler(log)
	handlers := rest.Handlers{
		Auth:       auth.NewHandler(baseHandler, authService),
		Department: department.NewHandler(baseHandler, departmentService),
		Permission: permission.NewHandler(baseHandler, permissionService),
		Role:       role.NewHandler(baseHandler, roleService),
		Access:     access.NewHandler(baseHandler, accessService),
		User:       user.NewHandler(baseHandler, userService),
		Form:       form.NewHandler(baseHandler, formService),
		Webhook:    webhook.NewHandler(baseHandler, webhookService),
		Audit:      audit.NewHandler(baseHandler, auditService),
	}

	return &Dependencies{
		Config:   config,
		Logger:   log,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Access:   accessService,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGormDB opens the ORM connection used by the repositories. TranslateError
// maps driver duplicate-key failures onto gorm.ErrDuplicatedKey, which the
// grant path relies on under concurrent writes.
func initGormDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(gormPostgres.Open(cfg.GetDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open orm connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying db: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return gormDB, nil
}
