package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
)

// MCPEndpoint is the path of the streamable HTTP endpoint.
const MCPEndpoint = "/mcp"

// HTTPServer serves the MCP server over streamable HTTP next to the health
// endpoints.
type HTTPServer struct {
	mcpServer        *mcpserver.MCPServer
	healthChecker    *HealthChecker
	metrics          *instrumentation.Metrics
	limiter          *clientLimiter
	disableStreaming bool

	mu         sync.Mutex
	httpServer *http.Server
	listenAddr string
}

// NewHTTPServer creates an HTTP server for mcpServer. disableStreaming answers
// every request with a single JSON response, for clients that cannot read
// server-sent events.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, disableStreaming bool) *HTTPServer {
	return &HTTPServer{mcpServer: mcpServer, disableStreaming: disableStreaming}
}

// SetHealthChecker registers /healthz, /readyz and /healthz/detailed.
func (s *HTTPServer) SetHealthChecker(h *HealthChecker) {
	s.healthChecker = h
}

// SetMetrics records a request metric for every HTTP request.
func (s *HTTPServer) SetMetrics(m *instrumentation.Metrics) {
	s.metrics = m
}

// SetRateLimit limits each client IP to limit requests per second on the MCP
// endpoint, with bursts of up to burst. A limit of zero or less disables it.
func (s *HTTPServer) SetRateLimit(limit float64, burst int) {
	if limit <= 0 {
		s.limiter = nil
		return
	}
	if burst < 1 {
		burst = 1
	}
	s.limiter = newClientLimiter(rate.Limit(limit), burst)
}

// Handler builds the request multiplexer.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	var mcpHandler http.Handler
	if s.disableStreaming {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(MCPEndpoint),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		mcpHandler = mcpserver.NewStreamableHTTPServer(s.mcpServer,
			mcpserver.WithEndpointPath(MCPEndpoint),
		)
	}
	mcpHandler = otelhttp.NewHandler(mcpHandler, "mcp")
	if s.limiter != nil {
		mcpHandler = s.limiter.middleware(mcpHandler)
	}
	mux.Handle(MCPEndpoint, mcpHandler)

	if s.healthChecker != nil {
		s.healthChecker.RegisterHealthEndpoints(mux)
	}

	if s.metrics == nil {
		return mux
	}
	return s.instrument(mux)
}

// instrument records method, path, status and duration of each request.
func (s *HTTPServer) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// Start serves on addr until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listenAddr = ln.Addr().String()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	return srv.Serve(ln)
}

// ListenAddr returns the bound address once started.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listenAddr
}

// Shutdown gracefully shuts down the server
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv != nil {
		return srv.Shutdown(ctx)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
