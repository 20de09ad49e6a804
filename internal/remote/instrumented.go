package remote

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

// Instrumented decorates a Service with a span and a metric per call.
type Instrumented struct {
	next    Service
	backend string
	metrics *instrumentation.Metrics
}

var _ Service = (*Instrumented)(nil)

// Instrument wraps svc. metrics may be nil, in which case only spans are
// recorded.
func Instrument(svc Service, backend string, metrics *instrumentation.Metrics) *Instrumented {
	return &Instrumented{next: svc, backend: backend, metrics: metrics}
}

// Unwrap returns the decorated service.
func (s *Instrumented) Unwrap() Service {
	return s.next
}

// begin starts a span for operation and returns the span context and a
// function that ends the span and records the outcome.
func (s *Instrumented) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := instrumentation.StartRemoteSpan(ctx, s.backend, operation, attrs...)
	return ctx, func(err error) {
		finish(ctx, span, s.metrics, s.backend, operation, start, err)
	}
}

func finish(ctx context.Context, span trace.Span, metrics *instrumentation.Metrics, backend, operation string, start time.Time, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	instrumentation.EndSpan(span, err)
	metrics.RecordRemoteOperation(ctx, backend, operation, status, time.Since(start))
}

// ListTasks implements TaskService.
func (s *Instrumented) ListTasks(ctx context.Context) ([]model.Task, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationListTasks)
	tasks, err := s.next.ListTasks(ctx)
	done(err)
	return tasks, err
}

// ListTasksByOwner implements TaskService.
func (s *Instrumented) ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationListTasksByOwner,
		instrumentation.OwnerAttrs(owner)...)
	tasks, err := s.next.ListTasksByOwner(ctx, owner)
	done(err)
	return tasks, err
}

// ListTasksByTimeRange implements TaskService.
func (s *Instrumented) ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationListTasksByTime)
	tasks, err := s.next.ListTasksByTimeRange(ctx, start, end)
	done(err)
	return tasks, err
}

// CreateTask implements TaskService.
func (s *Instrumented) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationCreateTask,
		instrumentation.OwnerAttrs(t.UserEmail)...)
	created, err := s.next.CreateTask(ctx, t)
	done(err)
	return created, err
}

// UpdateTask implements TaskService.
func (s *Instrumented) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	ctx, done := s.begin(ctx, instrumentation.OperationUpdateTask, instrumentation.TaskAttrs(id)...)
	err := s.next.UpdateTask(ctx, id, patch)
	done(err)
	return err
}

// SetTaskCompleted implements TaskService.
func (s *Instrumented) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	ctx, done := s.begin(ctx, instrumentation.OperationSetCompleted, instrumentation.TaskAttrs(id)...)
	err := s.next.SetTaskCompleted(ctx, id, completed)
	done(err)
	return err
}

// DeleteTask implements TaskService.
func (s *Instrumented) DeleteTask(ctx context.Context, id string) error {
	ctx, done := s.begin(ctx, instrumentation.OperationDeleteTask, instrumentation.TaskAttrs(id)...)
	err := s.next.DeleteTask(ctx, id)
	done(err)
	return err
}

// ListCategories implements CategoryService.
func (s *Instrumented) ListCategories(ctx context.Context) ([]model.Category, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationListCategories)
	cats, err := s.next.ListCategories(ctx)
	done(err)
	return cats, err
}

// CreateCategory implements CategoryService.
func (s *Instrumented) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	ctx, done := s.begin(ctx, instrumentation.OperationCreateCategory)
	created, err := s.next.CreateCategory(ctx, c)
	done(err)
	return created, err
}

// Close implements Service.
func (s *Instrumented) Close() error {
	return s.next.Close()
}
