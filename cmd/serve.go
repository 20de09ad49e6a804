package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/resources"
	"github.com/osvaldocariege06/Up-ToDo/internal/server"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/category_tools"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/focus_tools"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/google_tools"
	"github.com/osvaldocariege06/Up-ToDo/internal/tools/tasks_tools"
)

// Transports accepted by --transport.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// serveOptions holds the serve command's flags.
type serveOptions struct {
	transport        string
	httpAddr         string
	readOnly         bool
	disableStreaming bool
	rateLimit        float64
	rateBurst        int

	// Metrics server configuration
	metricsEnabled bool
	metricsAddr    string
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var so serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server so AI assistants can list,
create and complete tasks, manage categories and run focus sessions.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP on --http-addr, with /healthz and /readyz

The server is read-only by default; pass --read-only=false to register the
tools that create, change or delete tasks and categories.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					so.metricsAddr = addr
				}
			}
			if !cmd.Flags().Changed("metrics-enabled") {
				if v := os.Getenv("METRICS_ENABLED"); v != "" {
					so.metricsEnabled = strings.EqualFold(v, "true")
				}
			}
			return runServe(cmd.Context(), opts, so)
		},
	}

	cmd.Flags().StringVar(&so.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&so.httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&so.readOnly, "read-only", true, "Only register tools that do not change data")
	cmd.Flags().BoolVar(&so.disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().Float64Var(&so.rateLimit, "rate-limit", 0, "Requests per second allowed per client IP on the MCP endpoint (0 disables)")
	cmd.Flags().IntVar(&so.rateBurst, "rate-burst", 20, "Burst size for --rate-limit")
	cmd.Flags().BoolVar(&so.metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&so.metricsAddr, "metrics-addr", ":9090", "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func runServe(ctx context.Context, opts *rootOptions, so serveOptions) error {
	if so.transport != transportStdio && so.transport != transportStreamableHTTP {
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", so.transport)
	}

	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	instrConfig := cfg.Telemetry
	instrConfig.ServiceVersion = version
	instrConfig.Backend = cfg.Backend

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(ctx); err != nil {
			slog.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	var metrics *instrumentation.Metrics
	if provider.Enabled() {
		metrics = provider.Metrics()
	}

	a, err := opts.newApp(shutdownCtx, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	mcpSrv := mcpserver.NewMCPServer("uptodo", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)

	if so.readOnly {
		a.logger.Info("starting server in read-only mode (use --read-only=false to enable write tools)")
	} else {
		a.logger.Info("starting server with write tools enabled")
	}

	if err := registerAllTools(mcpSrv, a.sc, so.readOnly); err != nil {
		return err
	}

	switch so.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		var metricsServer *server.MetricsServer
		if so.metricsEnabled && provider.Enabled() && provider.HasPrometheusExporter() {
			metricsServer, err = server.NewMetricsServer(provider)
			if err != nil {
				return fmt.Errorf("failed to create metrics server: %w", err)
			}
			if err := metricsServer.Listen(so.metricsAddr); err != nil {
				return err
			}
		}
		return runStreamableHTTPServer(shutdownCtx, a, mcpSrv, so, metrics, metricsServer)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

// registerAllTools registers all MCP tools and resources. Tools that change
// data are left out when readOnly is set.
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "task tools",
			register: func() error {
				return tasks_tools.RegisterTaskTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "category tools",
			register: func() error {
				return category_tools.RegisterCategoryTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "focus tools",
			register: func() error {
				return focus_tools.RegisterFocusTools(mcpSrv, sc)
			},
		},
		{
			name: "Google tools",
			register: func() error {
				return google_tools.RegisterGoogleTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "resources",
			register: func() error {
				return resources.RegisterResources(mcpSrv, sc)
			},
		},
	}

	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s: %w", reg.name, err)
		}
	}
	return nil
}

// runStreamableHTTPServer serves MCP and, when given, the metrics server until
// ctx is done or either server fails.
func runStreamableHTTPServer(ctx context.Context, a *app, mcpSrv *mcpserver.MCPServer, so serveOptions, metrics *instrumentation.Metrics, metricsServer *server.MetricsServer) error {
	healthChecker := server.NewHealthChecker(a.sc)
	httpServer := server.NewHTTPServer(mcpSrv, so.disableStreaming)
	httpServer.SetHealthChecker(healthChecker)
	httpServer.SetMetrics(metrics)
	httpServer.SetRateLimit(so.rateLimit, so.rateBurst)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("streamable HTTP server starting",
			slog.String("addr", so.httpAddr),
			slog.String("endpoint", server.MCPEndpoint),
			slog.Bool("read_only", so.readOnly),
		)
		if err := httpServer.Start(so.httpAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
		return nil
	})
	if metricsServer != nil {
		g.Go(func() error {
			if err := metricsServer.Serve(); err != nil {
				return fmt.Errorf("metrics server stopped with error: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("error shutting down HTTP server: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("error shutting down metrics server: %w", err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info("HTTP server gracefully stopped")
	return nil
}
