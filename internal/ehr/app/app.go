package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/curalinkhq/curalink/internal/ehr/http"
	"github.com/curalinkhq/curalink/internal/ehr/rpc"
	"github.com/curalinkhq/curalink/internal/ehr/service"
	"github.com/curalinkhq/curalink/internal/ehr/store"
	"github.com/curalinkhq/curalink/internal/ehr/store/drivers/postgres"
	"github.com/curalinkhq/curalink/internal/ehr/store/drivers/sqlite"
	"github.com/curalinkhq/curalink/internal/ehr/tools"
	"github.com/curalinkhq/curalink/pkg/cryptox"
	"github.com/curalinkhq/curalink/pkg/ehrsdk"
	"github.com/curalinkhq/curalink/pkg/jwtx"
	"github.com/curalinkhq/curalink/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"

	// ServiceName is the serverInfo name reported by the initialize method.
	ServiceName = "curalink-ehr"
)

// Application encapsulates the EHR gateway with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	signer   jwtx.Signer
	verifier jwtx.Verifier

	// Services
	authService     *service.AuthService
	clientService   *service.ClientService
	clinicalService *service.ClinicalService
	guard           *service.AccessGuard
	registry        *tools.Registry
	dispatcher      *rpc.Dispatcher

	// Transports
	server *http.Server
	router *httpapi.Router
	socket *rpc.SocketServer
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: ServiceName,
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for secret hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	key, err := initSigningKey(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if app.signer, err = jwtx.NewSignerHS256(key); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	if app.verifier, err = jwtx.NewVerifierHS256(key, app.cfg.Issuer); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	app.initServices()
	app.initRPC()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	ctx := slogx.WithContext(context.Background(), app.logger)

	if app.cfg.SeedDemoData {
		if err := service.SeedDemoData(ctx, app.db); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	if err := app.socket.Start(); err != nil {
		return fmt.Errorf("failed to start socket server: %w", err)
	}

	app.logger.Info("ehr gateway starting",
		"http_port", app.cfg.HTTPPort,
		"socket_addr", app.cfg.SocketAddr,
		"version", BuildVersion,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down ehr gateway...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Stop the socket server and wait for in-flight connections
	if err := app.socket.Stop(ctx); err != nil {
		app.logger.Error("error stopping socket server", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("ehr gateway stopped")
	return nil
}

// initDatabase initializes the configured database and applies migrations
func (app *Application) initDatabase() error {
	db, err := OpenStore(app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// OpenStore opens the store selected by DATABASE_DRIVER without applying
// migrations. The migrate and register-client commands use it directly.
func OpenStore(cfg Config) (store.Store, error) {
	switch cfg.DatabaseDriver {
	case "postgres":
		return postgres.NewStore(cfg.DatabaseDSN)
	default:
		dsn := cfg.DatabaseDSN
		if dsn != ":memory:" {
			dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
		}
		return sqlite.NewStore(dsn)
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:     app.db,
		Signer:    app.signer,
		Verifier:  app.verifier,
		Issuer:    app.cfg.Issuer,
		AccessTTL: app.cfg.AccessTokenTTL,
	}

	app.clientService = &service.ClientService{Store: app.db}

	app.clinicalService = &service.ClinicalService{
		Store:   app.db,
		Timeout: app.cfg.StorageTimeout,
	}

	app.guard = service.NewAccessGuard()
	app.registry = tools.NewCatalogue(app.authService, app.clientService, app.clinicalService)
}

// initRPC initializes the JSON-RPC dispatcher and the TCP socket transport
func (app *Application) initRPC() {
	app.dispatcher = &rpc.Dispatcher{
		Auth:     app.authService,
		Clients:  app.clientService,
		Guard:    app.guard,
		Registry: app.registry,
		Info: ehrsdk.ServerInfo{
			Name:    ServiceName,
			Version: BuildVersion,
		},
	}

	app.socket = &rpc.SocketServer{
		Addr:       app.cfg.SocketAddr,
		Dispatcher: app.dispatcher,
		Logger:     app.logger,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.Dispatcher = app.dispatcher
	router.AuthService = app.authService
	router.ClientService = app.clientService
	router.Registry = app.registry
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
