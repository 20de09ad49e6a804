package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/osvaldocariege06/Up-ToDo/internal/config"
	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
)

// app is what a command needs to talk to the backend.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	sc     *server.ServerContext
}

// appFactory opens an app. metrics may be nil.
type appFactory func(ctx context.Context, metrics *instrumentation.Metrics) (*app, error)

// loadConfig reads the config file and environment, then applies flag
// overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.timeout > 0 {
		cfg.Timeout = o.timeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *rootOptions) openApp(ctx context.Context, metrics *instrumentation.Metrics) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	svc, err := server.OpenBackend(ctx, cfg, metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}

	sc, err := server.NewServerContext(context.Background(), server.Options{
		Service: svc,
		Owner:   server.NewOwnerProvider(cfg),
		Logger:  logger,
		Metrics: metrics,
	})
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("failed to create server context: %w", err)
	}

	logging.WithBackend(logger, cfg.Backend).Debug("backend opened")
	return &app{cfg: cfg, logger: logger, sc: sc}, nil
}

// withTimeout bounds a command's backend calls by the configured timeout.
func (a *app) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.cfg.Timeout)
}

// Close releases the backend.
func (a *app) Close() error {
	return a.sc.Shutdown()
}

// withApp opens an app, runs fn under the configured timeout and closes it.
func (o *rootOptions) withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := o.newApp(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("failed to close backend", logging.Err(err))
		}
	}()

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	return fn(ctx, a)
}
