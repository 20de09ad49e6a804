// Package remote defines the data service the stores mirror their state to.
//
// Implementations live in subpackages: memory (in-process), firestore (Cloud
// Firestore) and redisstore (Redis). Instrument wraps any of them with
// OpenTelemetry spans and metrics.
//
// Every implementation assigns record IDs, returns NotFoundError from the
// model package for unknown ids on update or delete, and wraps every other
// failure in a TransportError.
package remote

import (
	"context"
	"time"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

// TaskService is the remote task collection.
type TaskService interface {
	// ListTasks returns every task in the collection.
	ListTasks(ctx context.Context) ([]model.Task, error)
	// ListTasksByOwner returns the tasks whose UserEmail equals owner.
	ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error)
	// ListTasksByTimeRange returns the tasks whose Time lies in [start, end].
	// A zero bound is open.
	ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error)
	// CreateTask stores t and returns it with its assigned ID.
	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	// UpdateTask writes the fields set in patch.
	UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error
	// SetTaskCompleted writes the completed flag alone.
	SetTaskCompleted(ctx context.Context, id string, completed bool) error
	// DeleteTask removes the task.
	DeleteTask(ctx context.Context, id string) error
}

// CategoryService is the remote category collection. It is append-only.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) (model.Category, error)
}

// Service is a complete backend.
type Service interface {
	TaskService
	CategoryService
	// Close releases connections held by the backend.
	Close() error
}
