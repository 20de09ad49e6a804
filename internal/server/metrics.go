package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
)

const (
	// DefaultMetricsAddr is where the metrics server listens unless told otherwise.
	DefaultMetricsAddr = ":9090"

	// DefaultShutdownTimeout bounds graceful shutdown of every server.
	DefaultShutdownTimeout = 30 * time.Second

	metricsTimeout     = 10 * time.Second
	metricsIdleTimeout = 60 * time.Second
)

// MetricsServer exposes the default Prometheus registry on its own port, away
// from the MCP endpoint.
type MetricsServer struct {
	srv *http.Server
	ln  net.Listener
}

// NewMetricsServer checks that provider exports to Prometheus.
func NewMetricsServer(provider *instrumentation.Provider) (*MetricsServer, error) {
	switch {
	case provider == nil:
		return nil, fmt.Errorf("instrumentation provider is required for metrics server")
	case !provider.Enabled():
		return nil, fmt.Errorf("instrumentation provider is not enabled")
	case !provider.HasPrometheusExporter():
		return nil, fmt.Errorf("metrics exporter is not prometheus")
	}

	s := &MetricsServer{}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: metricsTimeout,
		WriteTimeout:      metricsTimeout,
		IdleTimeout:       metricsIdleTimeout,
	}
	return s, nil
}

// Handler serves /metrics and a plain /healthz.
func (s *MetricsServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Listen binds addr. An empty addr means DefaultMetricsAddr.
func (s *MetricsServer) Listen(addr string) error {
	if addr == "" {
		addr = DefaultMetricsAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics server listen on %s: %w", addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *MetricsServer) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve blocks until Shutdown. It returns nil after a clean shutdown.
func (s *MetricsServer) Serve() error {
	if s.ln == nil {
		return errors.New("metrics server is not listening")
	}
	slog.Info("metrics server started", "addr", s.Addr())
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server. Calling it before Serve closes the listener.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if s.ln != nil {
		// Serve closes the listener itself; this covers Listen without Serve.
		_ = s.ln.Close()
	}
	return err
}
