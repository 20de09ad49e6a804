package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/osvaldocariege06/Up-ToDo/internal/auth"
	"github.com/osvaldocariege06/Up-ToDo/internal/focus"
	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/store"
)

// Options are the collaborators a ServerContext is built from.
type Options struct {
	Service remote.Service     // Required
	Owner   auth.OwnerProvider // Defaults to an empty auth.Static
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics

	// TimerOptions are appended after the context's own timer options.
	TimerOptions []focus.Option
}

// ServerContext owns the stores, the focus timer and the backend they share
// for the lifetime of one process.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	svc        remote.Service
	owner      auth.OwnerProvider
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	tasks      *store.TaskStore
	categories *store.CategoryStore
	timer      *focus.Timer

	// taskMu serializes tool calls that replace the shared task collection
	// and then read it back.
	taskMu sync.Mutex

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("remote service is required")
	}
	if opts.Owner == nil {
		opts.Owner = auth.Static("")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	storeOpts := []store.Option{store.WithLogger(opts.Logger), store.WithMetrics(opts.Metrics)}
	timerOpts := append([]focus.Option{
		focus.WithLogger(logging.Component(opts.Logger, "focus")),
		focus.WithMetrics(opts.Metrics),
	}, opts.TimerOptions...)

	return &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		svc:        opts.Service,
		owner:      opts.Owner,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		tasks:      store.NewTaskStore(opts.Service, storeOpts...),
		categories: store.NewCategoryStore(opts.Service, storeOpts...),
		timer:      focus.New(timerOpts...),
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Tasks returns the task store.
func (sc *ServerContext) Tasks() *store.TaskStore {
	return sc.tasks
}

// WithTasks runs fn with exclusive use of the task store. A load and the
// view derived from it stay consistent for the duration of fn.
func (sc *ServerContext) WithTasks(fn func(*store.TaskStore) error) error {
	sc.taskMu.Lock()
	defer sc.taskMu.Unlock()
	return fn(sc.tasks)
}

// Categories returns the category store.
func (sc *ServerContext) Categories() *store.CategoryStore {
	return sc.categories
}

// Timer returns the focus timer.
func (sc *ServerContext) Timer() *focus.Timer {
	return sc.timer
}

// Service returns the backend shared by the stores.
func (sc *ServerContext) Service() remote.Service {
	return sc.svc
}

// Metrics returns the metrics recorder, which may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Logger returns the logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// OwnerID resolves the current owner.
func (sc *ServerContext) OwnerID(ctx context.Context) (string, error) {
	return sc.owner.OwnerID(ctx)
}

// Ping checks the backend when it supports a health probe.
func (sc *ServerContext) Ping(ctx context.Context) error {
	svc := sc.svc
	if u, ok := svc.(interface{ Unwrap() remote.Service }); ok {
		svc = u.Unwrap()
	}
	if p, ok := svc.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown stops the focus timer and closes the backend.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	sc.timer.Stop()

	var errs []error
	if err := sc.svc.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing backend: %w", err))
	}
	return errors.Join(errs...)
}
