package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	httpapi "github.com/aussiebroadwan/surplus360/internal/surplus/http"
	"github.com/aussiebroadwan/surplus360/internal/surplus/metrics"
	"github.com/aussiebroadwan/surplus360/internal/surplus/service"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store/drivers/postgres"
	"github.com/aussiebroadwan/surplus360/internal/surplus/store/drivers/sqlite"
	"github.com/aussiebroadwan/surplus360/pkg/cryptox"
	"github.com/aussiebroadwan/surplus360/pkg/jwtx"
	"github.com/aussiebroadwan/surplus360/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the marketplace service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	codec    *jwtx.Codec
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	authService         *service.AuthService
	accountService      *service.AccountService
	notificationService *service.NotificationService
	listingService      *service.ListingService
	housekeepingService *service.HousekeepingService
	housekeepingStarted bool

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "surplus360",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		registry: metrics.NewRegistry(),
	}
	app.metrics = metrics.New(app.registry)

	// Set pepper path for password hashing
	cryptox.SetPepperPath(cfg.PepperFile)
	if err := cryptox.LoadPepper(); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	// Database first, persistent secrets live there
	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	codec, err := InitCodec(ctx, cfg, app.db, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing secret: %w", err)
	}
	app.codec = codec

	app.initServices()
	if err := app.seedAdmin(ctx); err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to seed admin account: %w", err)
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until ctx is cancelled or the
// server fails.
func (app *Application) Run(ctx context.Context) error {
	app.housekeepingService.Start()
	app.housekeepingStarted = true

	app.logger.Info("surplus360 starting", "port", app.cfg.Port, "version", BuildVersion, "db", app.cfg.DBDriver)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
	}

	if err := app.Shutdown(); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down surplus360...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingStarted {
		app.housekeepingService.Stop()
		app.housekeepingStarted = false
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("surplus360 stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db    store.Store
		stats *sql.DB
	)

	switch app.cfg.DBDriver {
	case DriverPostgres:
		pg, err := postgres.NewStore(ctx, app.cfg.DBURL)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db, stats = pg, pg.DB()
	default:
		lite, err := sqlite.NewStore(sqliteDSN(app.cfg.DBURL))
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		db, stats = lite, lite.DB()
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	if err := metrics.RegisterDBStats(app.registry, stats, app.cfg.DBDriver); err != nil {
		app.logger.Warn("database stats not exported", "error", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DBDriver)
	return nil
}

// sqliteDSN turns a bare file name into a DSN with WAL and a busy timeout.
func sqliteDSN(file string) string {
	if strings.HasPrefix(file, "file:") || file == ":memory:" {
		return file
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", file)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:         app.db,
		Codec:         app.codec,
		Metrics:       app.metrics,
		SessionTTL:    app.cfg.SessionTTL,
		RememberMeTTL: app.cfg.RememberMeTTL,
		AccessTTL:     app.cfg.AccessTTL,
		RefreshTTL:    app.cfg.RefreshTTL,
	}
	app.accountService = &service.AccountService{
		Store:             app.db,
		RequireActivation: app.cfg.RequireActivation,
		PhoneRegion:       app.cfg.PhoneRegion,
	}
	app.notificationService = &service.NotificationService{
		Store:   app.db,
		Metrics: app.metrics,
	}
	app.listingService = &service.ListingService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.Metrics = app.metrics
	app.housekeepingService.PurgeUnactivated = app.cfg.RequireActivation
}

// seedAdmin creates the configured administrator when a password is set.
func (app *Application) seedAdmin(ctx context.Context) error {
	if app.cfg.AdminPassword == "" {
		return nil
	}
	_, err := app.accountService.EnsureAdmin(slogx.WithContext(ctx, app.logger), service.AdminSeed{
		Login:    app.cfg.AdminLogin,
		Email:    app.cfg.AdminEmail,
		Password: app.cfg.AdminPassword,
	})
	return err
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
		app.metrics,
		app.registry,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.AccountService = app.accountService
	router.NotificationService = app.notificationService
	router.ListingService = app.listingService
	router.ExposeActivationKey = app.cfg.ExposeActivationKeys
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
