// Package memory is an in-process remote.Service. It backs tests and the
// "memory" backend, where state lives only as long as the process.
package memory

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// Service keeps tasks and categories in insertion order.
type Service struct {
	mu         sync.RWMutex
	tasks      map[string]model.Task
	taskOrder  []string
	categories map[string]model.Category
	catOrder   []string
	newID      func() string
	fail       map[string]error
}

var _ remote.Service = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

// New creates an empty Service.
func New(opts ...Option) *Service {
	s := &Service{
		tasks:      make(map[string]model.Task),
		categories: make(map[string]model.Category),
		newID:      uuid.NewString,
		fail:       make(map[string]error),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SequentialIDs returns a generator yielding prefix1, prefix2, ...
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}

// FailNext makes the next call of operation return err wrapped as a
// TransportError. Operation names are the method names, e.g. "DeleteTask".
func (s *Service) FailNext(operation string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[operation] = err
}

// injected returns and clears a pending failure. Caller holds s.mu.
func (s *Service) injected(operation string) error {
	err, ok := s.fail[operation]
	if !ok {
		return nil
	}
	delete(s.fail, operation)
	return model.Transport(operation, err)
}

func (s *Service) checkCtx(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return model.Transport(op, err)
	}
	return nil
}

// ListTasks implements remote.TaskService.
func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	return s.listTasks(ctx, "ListTasks", func(model.Task) bool { return true })
}

// ListTasksByOwner implements remote.TaskService.
func (s *Service) ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	return s.listTasks(ctx, "ListTasksByOwner", func(t model.Task) bool { return t.UserEmail == owner })
}

// ListTasksByTimeRange implements remote.TaskService.
func (s *Service) ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	return s.listTasks(ctx, "ListTasksByTimeRange", func(t model.Task) bool { return t.InRange(start, end) })
}

func (s *Service) listTasks(ctx context.Context, op string, keep func(model.Task) bool) ([]model.Task, error) {
	if err := s.checkCtx(ctx, op); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected(op); err != nil {
		return nil, err
	}

	out := make([]model.Task, 0, len(s.taskOrder))
	for _, id := range s.taskOrder {
		if t := s.tasks[id]; keep(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTask implements remote.TaskService.
func (s *Service) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	if err := s.checkCtx(ctx, "CreateTask"); err != nil {
		return model.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateTask"); err != nil {
		return model.Task{}, err
	}

	t.ID = s.newID()
	s.tasks[t.ID] = t
	s.taskOrder = append(s.taskOrder, t.ID)
	return t, nil
}

// UpdateTask implements remote.TaskService.
func (s *Service) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	if err := s.checkCtx(ctx, "UpdateTask"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("UpdateTask"); err != nil {
		return err
	}

	t, ok := s.tasks[id]
	if !ok {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	s.tasks[id] = patch.Apply(t)
	return nil
}

// SetTaskCompleted implements remote.TaskService.
func (s *Service) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	if err := s.checkCtx(ctx, "SetTaskCompleted"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("SetTaskCompleted"); err != nil {
		return err
	}

	t, ok := s.tasks[id]
	if !ok {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	t.Completed = completed
	s.tasks[id] = t
	return nil
}

// DeleteTask implements remote.TaskService.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.checkCtx(ctx, "DeleteTask"); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("DeleteTask"); err != nil {
		return err
	}

	if _, ok := s.tasks[id]; !ok {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	delete(s.tasks, id)
	for i, oid := range s.taskOrder {
		if oid == id {
			s.taskOrder = append(s.taskOrder[:i], s.taskOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ListCategories implements remote.CategoryService.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := s.checkCtx(ctx, "ListCategories"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("ListCategories"); err != nil {
		return nil, err
	}

	out := make([]model.Category, 0, len(s.catOrder))
	for _, id := range s.catOrder {
		out = append(out, s.categories[id])
	}
	return out, nil
}

// CreateCategory implements remote.CategoryService.
func (s *Service) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	if err := s.checkCtx(ctx, "CreateCategory"); err != nil {
		return model.Category{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.injected("CreateCategory"); err != nil {
		return model.Category{}, err
	}

	c.ID = s.newID()
	s.categories[c.ID] = c
	s.catOrder = append(s.catOrder, c.ID)
	return c, nil
}

// Close implements remote.Service.
func (s *Service) Close() error {
	return nil
}

// Seed stores tasks with their IDs as given, replacing existing records with
// the same ID. Used to load fixtures.
func (s *Service) Seed(tasks ...model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			t.ID = s.newID()
		}
		if _, exists := s.tasks[t.ID]; !exists {
			s.taskOrder = append(s.taskOrder, t.ID)
		}
		s.tasks[t.ID] = t
	}
}
