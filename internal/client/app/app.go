// Package app wires the Daily Spanish client together: storage, API
// client, session, cart, checkout and the payment callback listener.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/api"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/callback"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/cart"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/checkout"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/onboarding"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/session"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store/drivers/memory"
	"github.com/playprowess89181-creator/daily-spanish-sub000/internal/client/store/drivers/sqlite"
	"github.com/playprowess89181-creator/daily-spanish-sub000/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the client with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Storage
	durable *sqlite.Store
	dual    *store.Dual

	// Components
	API        *api.Client
	Session    *session.Manager
	Cart       *cart.Cart
	Checkout   *checkout.Orchestrator
	Onboarding *onboarding.Gate

	// Loopback listener for provider returns
	callback *callback.Server
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "dsclient",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initStorage(); err != nil {
		return nil, err
	}
	app.initComponents()

	return app, nil
}

// Run restores state and blocks serving payment callbacks until shutdown
// is requested.
func (app *Application) Run() error {
	ctx := context.Background()

	if err := app.Session.Initialize(ctx); err != nil {
		// The session falls back to cached state on its own; a returned
		// error here means even that was impossible. Start logged out.
		app.logger.Warn("session restore failed", "error", err)
	}
	if err := app.Cart.Load(ctx); err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	app.logger.Info("daily spanish client starting",
		"version", BuildVersion,
		"session", app.Session.Status().String(),
		"cart_items", app.Cart.Count(),
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.callback.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("callback listener failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown stops the callback listener and closes storage. The session
// backend is memory, so closing it is what gives session-scoped logins
// their end-on-exit semantics.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down daily spanish client...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.callback.Shutdown(ctx); err != nil {
		app.logger.Error("callback listener shutdown failed", "error", err)
	}

	if err := app.dual.Close(); err != nil {
		app.logger.Error("error closing storage", "error", err)
		return err
	}

	app.logger.Info("daily spanish client stopped")
	return nil
}

// initStorage opens the durable SQLite store, applies migrations and pairs
// it with the in-memory session store.
func (app *Application) initStorage() error {
	if err := os.MkdirAll(app.cfg.DataDir, 0o700); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile())
	durable, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to open durable store: %w", err)
	}
	app.durable = durable

	if err := durable.ApplyMigrations(); err != nil {
		_ = durable.Close()
		return fmt.Errorf("failed to apply store migrations: %w", err)
	}
	app.logger.Info("store migrations applied successfully")

	app.dual = store.NewDual(durable, memory.New())
	return nil
}

// initComponents wires the client components over the dual store.
func (app *Application) initComponents() {
	app.API = api.NewClient(app.cfg.APIBaseURL)
	app.Session = session.NewManager(app.API, app.dual, app.logger)
	app.Cart = cart.New(app.dual.Durable(), app.logger)

	gateway := checkout.NewStripeGateway(app.cfg.StripePublishableKey)
	app.Checkout = checkout.NewOrchestrator(
		app.API,
		app.Session,
		app.dual,
		app.Cart,
		gateway,
		app.logger,
	)
	app.Onboarding = onboarding.NewGate(app.API, app.Session, app.logger)

	app.callback = callback.NewServer(app.cfg.CallbackPort, app.Checkout, app.logger)
}
