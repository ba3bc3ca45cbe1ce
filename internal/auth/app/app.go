package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/gallery/internal/auth/guard"
	httpapi "github.com/aussiebroadwan/gallery/internal/auth/http"
	"github.com/aussiebroadwan/gallery/internal/auth/policy"
	"github.com/aussiebroadwan/gallery/internal/auth/service"
	"github.com/aussiebroadwan/gallery/internal/auth/session"
	"github.com/aussiebroadwan/gallery/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/gallery/pkg/cryptox"
	"github.com/aussiebroadwan/gallery/pkg/jwtx"
	"github.com/aussiebroadwan/gallery/pkg/slogx"
	"golang.org/x/sync/errgroup"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the gallery auth core together: credential store,
// token codec, lockout guard, session store, rule tables and the HTTP
// router serving both trust surfaces.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         *sqlite.Store
	keyManager *jwtx.KeyManager
	codec      *jwtx.Codec
	limiter    guard.Limiter
	sessions   *session.Store
	policies   policy.Tables

	authService         *service.AuthService
	userService         *service.UserService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with every dependency initialised. The signing
// key is generated here and lives only in memory.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "gallery-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(cfg.Algorithm)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize signing key: %w", err)
	}
	app.keyManager = keyManager
	app.codec = jwtx.NewCodec(keyManager, cfg.Issuer)
	app.logger.Info("signing key generated", "algorithm", keyManager.Algorithm(), "kid", keyManager.KID())

	policies, err := policy.LoadFile(cfg.PolicyFile)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to load policy file: %w", err)
	}
	app.policies = policies

	app.initServices()

	if err := app.bootstrap(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
	}

	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	scope := guard.ParseScope(app.cfg.LockoutScope)
	app.limiter = guard.NewLimiter(scope, app.cfg.GuardConfig())
	app.sessions = session.NewStore(app.cfg.SessionTTL)

	app.authService = &service.AuthService{
		Credentials:   app.db,
		Codec:         app.codec,
		Limiter:       app.limiter,
		LookupTimeout: app.cfg.LookupTimeout,
	}
	app.userService = &service.UserService{Store: app.db}

	// Only per-identity limiters accumulate entries worth pruning.
	var pruner service.LimiterPruner
	if keyed, ok := app.limiter.(*guard.Keyed); ok {
		pruner = keyed
	}
	app.housekeepingService = service.NewHousekeepingService(
		app.sessions,
		pruner,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	app.housekeepingService.IdleAfter = app.cfg.LockoutDuration

	app.logger.Info("lockout configured",
		"scope", scope,
		"max_attempts", app.cfg.MaxAttempts,
		"duration", app.cfg.LockoutDuration,
	)
}

func (app *Application) bootstrap() error {
	if app.cfg.BootstrapAdminUsername == "" {
		return nil
	}

	ctx := slogx.WithContext(context.Background(), app.logger)
	if _, err := app.userService.BootstrapAdmin(ctx,
		app.cfg.BootstrapAdminUsername,
		app.cfg.BootstrapAdminPassword,
		time.Now(),
	); err != nil {
		return fmt.Errorf("failed to bootstrap admin: %w", err)
	}
	return nil
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Keys:          app.keyManager,
		Codec:         app.codec,
		Store:         app.db,
		Sessions:      app.sessions,
		Policies:      app.policies,
		BuildVersion:  BuildVersion,
		SecureCookies: app.cfg.SecureCookies,
		Logger:        app.logger,
	})
	router.AuthService = app.authService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run serves HTTP and runs housekeeping until ctx is cancelled or an
// interrupt arrives, then shuts down gracefully and closes the database.
func (app *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.housekeepingService.Start()

	app.logger.Info("gallery auth starting", "port", app.cfg.Port, "version", BuildVersion)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info("shutdown requested")
		return app.shutdownServer()
	})

	err := g.Wait()

	app.housekeepingService.Stop()
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}

	app.logger.Info("gallery auth stopped")
	return err
}

func (app *Application) shutdownServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if cerr := app.server.Close(); cerr != nil {
			app.logger.Error("error closing server", "error", cerr)
		}
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// Close releases the database.
func (app *Application) Close() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}
