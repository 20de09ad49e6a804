package store

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osvaldocariege06/Up-ToDo/internal/instrumentation"
	"github.com/osvaldocariege06/Up-ToDo/internal/logging"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// TaskStore is the session's task collection.
type TaskStore struct {
	svc     remote.TaskService
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	loading atomic.Int32

	mu       sync.RWMutex
	tasks    []model.Task
	filtered []model.Task
	unsynced map[string]struct{}
}

// NewTaskStore creates an empty store mirroring svc.
func NewTaskStore(svc remote.TaskService, opts ...Option) *TaskStore {
	o := buildOptions(opts)
	return &TaskStore{
		svc:      svc,
		logger:   o.logger.With(slog.String("store", "tasks")),
		metrics:  o.metrics,
		unsynced: make(map[string]struct{}),
	}
}

// LoadAll replaces the collection with every task in the backend.
func (s *TaskStore) LoadAll(ctx context.Context) error {
	s.loading.Add(1)
	defer s.loading.Add(-1)

	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.logger.Error("failed to load tasks", logging.Operation("load_all"), logging.Err(err))
		return err
	}
	s.replace(tasks)
	return nil
}

// LoadByOwner replaces the collection with the tasks owned by owner.
func (s *TaskStore) LoadByOwner(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return model.NewValidationError(model.FieldUserEmail, "must not be empty")
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	tasks, err := s.svc.ListTasksByOwner(ctx, owner)
	if err != nil {
		s.logger.Error("failed to load tasks", logging.Operation("load_by_owner"), logging.UserHash(owner), logging.Err(err))
		return err
	}
	s.replace(tasks)
	return nil
}

// FilterByDateRange replaces the collection with the tasks whose time lies
// in [start, end]. A zero bound is open.
func (s *TaskStore) FilterByDateRange(ctx context.Context, start, end time.Time) error {
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return model.NewValidationError("range", "start must not be after end")
	}

	s.loading.Add(1)
	defer s.loading.Add(-1)

	tasks, err := s.svc.ListTasksByTimeRange(ctx, start, end)
	if err != nil {
		s.logger.Error("failed to load tasks by date range", logging.Operation("filter_by_date_range"), logging.Err(err))
		return err
	}
	s.replace(tasks)
	return nil
}

// replace swaps the collection and forgets unsynced marks, since the backend
// copy is now authoritative.
func (s *TaskStore) replace(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]model.Task(nil), tasks...)
	s.unsynced = make(map[string]struct{})
}

// Create validates t, forces it incomplete and sends it to the backend. The
// confirmed record, with its assigned ID, is appended and returned.
func (s *TaskStore) Create(ctx context.Context, t model.Task) (model.Task, error) {
	t.Completed = false
	if err := t.ValidateNew(); err != nil {
		return model.Task{}, err
	}

	created, err := s.svc.CreateTask(ctx, t)
	if err != nil {
		s.logger.Error("failed to create task", logging.Operation("create"), logging.UserHash(t.UserEmail), logging.Err(err))
		return model.Task{}, err
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, created)
	s.mu.Unlock()

	s.logger.Debug("task created", logging.TaskID(created.ID), logging.UserHash(created.UserEmail))
	return created, nil
}

// Update sends patch and, once confirmed, merges it into the matching record.
// An id missing from the collection is not an error locally; the write still
// goes to the backend.
func (s *TaskStore) Update(ctx context.Context, id string, patch model.TaskPatch) error {
	if id == "" {
		return model.NewValidationError("id", "must not be empty")
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	if err := s.svc.UpdateTask(ctx, id, patch); err != nil {
		s.logger.Error("failed to update task", logging.Operation("update"), logging.TaskID(id), logging.Err(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.tasks[i] = patch.Apply(s.tasks[i])
	}
	return nil
}

// UpdateTitleAndDescription updates both text fields together.
func (s *TaskStore) UpdateTitleAndDescription(ctx context.Context, id, title, description string) error {
	return s.Update(ctx, id, model.TaskPatch{Title: &title, Description: &description})
}

// UpdateTime updates the due time alone.
func (s *TaskStore) UpdateTime(ctx context.Context, id, when string) error {
	return s.Update(ctx, id, model.TaskPatch{Time: &when})
}

// UpdatePriority updates the priority alone.
func (s *TaskStore) UpdatePriority(ctx context.Context, id, priority string) error {
	return s.Update(ctx, id, model.TaskPatch{Priority: &priority})
}

// SetCompleted flips the local record at once and then writes the flag.
// A failed write is returned but the local flip is kept; the record is
// listed by Unsynced until the next successful load.
func (s *TaskStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	if id == "" {
		return model.NewValidationError("id", "must not be empty")
	}

	s.mu.Lock()
	i := s.indexLocked(id)
	if i >= 0 {
		s.tasks[i].Completed = completed
	}
	s.mu.Unlock()

	err := s.svc.SetTaskCompleted(ctx, id, completed)

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		if err != nil {
			s.unsynced[id] = struct{}{}
		} else {
			delete(s.unsynced, id)
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.metrics.RecordOptimisticConflict(ctx, instrumentation.OperationSetCompleted)
		s.logger.Warn("completion kept locally but not saved",
			logging.Operation("set_completed"), logging.TaskID(id), slog.Bool("completed", completed), logging.Err(err))
		return err
	}
	return nil
}

// Confirm marks the task completed.
func (s *TaskStore) Confirm(ctx context.Context, id string) error {
	return s.SetCompleted(ctx, id, true)
}

// Cancel marks the task not completed.
func (s *TaskStore) Cancel(ctx context.Context, id string) error {
	return s.SetCompleted(ctx, id, false)
}

// Remove deletes the task in the backend and then locally.
func (s *TaskStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return model.NewValidationError("id", "must not be empty")
	}

	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.logger.Error("failed to delete task", logging.Operation("remove"), logging.TaskID(id), logging.Err(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
	s.filtered = without(s.filtered, id)
	delete(s.unsynced, id)
	return nil
}

// FilterByTitleAndCompletion derives the filtered view from the collection:
// tasks whose title contains text, ignoring case, and, when completed is not
// nil, whose completion equals *completed. The view is kept for Filtered and
// returned.
func (s *TaskStore) FilterByTitleAndCompletion(text string, completed *bool) []model.Task {
	needle := strings.ToLower(text)

	s.mu.Lock()
	defer s.mu.Unlock()

	view := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		if completed != nil && t.Completed != *completed {
			continue
		}
		view = append(view, t)
	}
	s.filtered = view
	return append([]model.Task(nil), view...)
}

// Tasks returns a copy of the collection.
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

// Filtered returns a copy of the last derived view.
func (s *TaskStore) Filtered() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.filtered...)
}

// Get returns the task with id.
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Unsynced returns the ids whose local completion flag failed to save.
func (s *TaskStore) Unsynced() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.unsynced))
	for id := range s.unsynced {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Loading reports whether a load is in flight.
func (s *TaskStore) Loading() bool {
	return s.loading.Load() > 0
}

func (s *TaskStore) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func without(tasks []model.Task, id string) []model.Task {
	out := tasks[:0]
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
