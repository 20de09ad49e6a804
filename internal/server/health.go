package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
	healthStatusUnreachable  = "unreachable"
)

// backendPingTimeout bounds the readiness probe's backend check.
const backendPingTimeout = 2 * time.Second

// HealthChecker serves liveness, readiness and a detailed status of the
// session state. A nil ServerContext skips the context and backend checks.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// NewHealthChecker creates a checker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips the readiness flag, e.g. false while draining.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the readiness flag.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Tasks       int    `json:"tasks"`
	Unsynced    int    `json:"unsynced"`
	Categories  int    `json:"categories"`
	FocusActive bool   `json:"focusActive"`
}

// check returns "" when healthy and a failure status otherwise.
type check struct {
	name string
	run  func(ctx context.Context) string
}

func (h *HealthChecker) checks() []check {
	return []check{
		{"ready", func(context.Context) string {
			if !h.ready.Load() {
				return healthStatusNotReady
			}
			return ""
		}},
		{"shutdown", func(context.Context) string {
			if h.sc != nil && h.sc.IsShutdown() {
				return healthStatusShuttingDown
			}
			return ""
		}},
		{"backend", func(ctx context.Context) string {
			if h.sc == nil {
				return ""
			}
			ctx, cancel := context.WithTimeout(ctx, backendPingTimeout)
			defer cancel()
			if h.sc.Ping(ctx) != nil {
				return healthStatusUnreachable
			}
			return ""
		}},
	}
}

// LivenessHandler answers 200 while the process can serve requests.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler answers 200 only when every check passes.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: healthStatusOK, Checks: make(map[string]string)}
		code := http.StatusOK
		for _, c := range h.checks() {
			status := c.run(r.Context())
			if status == "" {
				resp.Checks[c.name] = healthStatusOK
				continue
			}
			resp.Checks[c.name] = status
			resp.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// DetailedHealthHandler reports uptime and the size of the session state. It
// does not contact the backend.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := DetailedHealthResponse{
			Status: healthStatusOK,
			Uptime: time.Since(h.started).Truncate(time.Second).String(),
		}
		if h.sc != nil {
			resp.Tasks = len(h.sc.Tasks().Tasks())
			resp.Unsynced = len(h.sc.Tasks().Unsynced())
			resp.Categories = len(h.sc.Categories().Categories())
			resp.FocusActive = h.sc.Timer().State().Active
		}

		code := http.StatusOK
		switch {
		case !h.ready.Load():
			resp.Status = healthStatusNotReady
			code = http.StatusServiceUnavailable
		case h.sc != nil && h.sc.IsShutdown():
			resp.Status = healthStatusShuttingDown
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// RegisterHealthEndpoints mounts /healthz, /readyz and /healthz/detailed.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("GET /healthz", h.LivenessHandler())
	mux.Handle("GET /readyz", h.ReadinessHandler())
	mux.Handle("GET /healthz/detailed", h.DetailedHealthHandler())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
