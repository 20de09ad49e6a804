package firestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/osvaldocariege06/Up-ToDo/internal/google"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// Default collection names, matching the mobile client.
const (
	DefaultTasksCollection      = "tasks"
	DefaultCategoriesCollection = "categories"
)

// Config selects the Firestore database and the credentials used to reach it.
type Config struct {
	ProjectID  string
	DatabaseID string // empty selects the (default) database
	// Account names a stored Google OAuth token. When empty, Application
	// Default Credentials are used.
	Account string

	TasksCollection      string
	CategoriesCollection string
}

// Client implements remote.Service on Cloud Firestore.
type Client struct {
	fs         *firestore.Client
	tasks      string
	categories string
}

var _ remote.Service = (*Client)(nil)

// NewClient connects to Firestore. Extra options are passed to the
// underlying client, after the account's token source when one is set.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, model.NewValidationError("projectId", "must not be empty")
	}

	if cfg.Account != "" {
		ts, err := google.GetTokenSourceForAccount(ctx, cfg.Account)
		if err != nil {
			return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", cfg.Account, err)
		}
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}

	var (
		fs  *firestore.Client
		err error
	)
	if cfg.DatabaseID != "" {
		fs, err = firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID, opts...)
	} else {
		fs, err = firestore.NewClient(ctx, cfg.ProjectID, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return NewFromClient(fs, cfg.TasksCollection, cfg.CategoriesCollection), nil
}

// NewFromClient wraps an existing Firestore client. Empty collection names
// select the defaults.
func NewFromClient(fs *firestore.Client, tasksCollection, categoriesCollection string) *Client {
	if tasksCollection == "" {
		tasksCollection = DefaultTasksCollection
	}
	if categoriesCollection == "" {
		categoriesCollection = DefaultCategoriesCollection
	}
	return &Client{fs: fs, tasks: tasksCollection, categories: categoriesCollection}
}

// Close implements remote.Service.
func (c *Client) Close() error {
	return c.fs.Close()
}

// ListTasks implements remote.TaskService.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return c.queryTasks(ctx, "firestore: list tasks", c.fs.Collection(c.tasks).Query, nil)
}

// ListTasksByOwner implements remote.TaskService.
func (c *Client) ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	q := c.fs.Collection(c.tasks).Where(model.FieldUserEmail, "==", owner)
	return c.queryTasks(ctx, "firestore: list tasks by owner", q, nil)
}

// ListTasksByTimeRange implements remote.TaskService.
//
// Stored times are ISO-8601 strings in whatever offset the writer used, so the
// query narrows candidates by calendar date with a one-day margin on each side
// and the exact bounds are applied to the parsed values.
func (c *Client) ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	q := c.fs.Collection(c.tasks).Where(model.FieldTime, ">", "")
	if !start.IsZero() {
		q = q.Where(model.FieldTime, ">=", start.UTC().AddDate(0, 0, -1).Format(time.DateOnly))
	}
	if !end.IsZero() {
		q = q.Where(model.FieldTime, "<", end.UTC().AddDate(0, 0, 2).Format(time.DateOnly))
	}
	return c.queryTasks(ctx, "firestore: list tasks by time", q, func(t model.Task) bool {
		return t.InRange(start, end)
	})
}

// queryTasks runs q and returns matching tasks in creation order.
func (c *Client) queryTasks(ctx context.Context, op string, q firestore.Query, keep func(model.Task) bool) ([]model.Task, error) {
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, model.Transport(op, err)
	}

	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CreateTime.Before(snaps[j].CreateTime)
	})

	tasks := make([]model.Task, 0, len(snaps))
	for _, snap := range snaps {
		var d taskDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, model.Transport(op, fmt.Errorf("decode task %s: %w", snap.Ref.ID, err))
		}
		t := toTask(snap.Ref.ID, d)
		if keep != nil && !keep(t) {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask implements remote.TaskService.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	ref, _, err := c.fs.Collection(c.tasks).Add(ctx, fromTask(t))
	if err != nil {
		return model.Task{}, model.Transport("firestore: create task", err)
	}
	t.ID = ref.ID
	return t, nil
}

// UpdateTask implements remote.TaskService.
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	fields := patch.Fields()
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	sort.Slice(updates, func(i, j int) bool { return updates[i].Path < updates[j].Path })

	_, err := c.fs.Collection(c.tasks).Doc(id).Update(ctx, updates)
	return taskError("firestore: update task", id, err)
}

// SetTaskCompleted implements remote.TaskService.
func (c *Client) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	_, err := c.fs.Collection(c.tasks).Doc(id).Update(ctx, []firestore.Update{
		{Path: model.FieldCompleted, Value: completed},
	})
	return taskError("firestore: set task completed", id, err)
}

// DeleteTask implements remote.TaskService.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.fs.Collection(c.tasks).Doc(id).Delete(ctx, firestore.Exists)
	return taskError("firestore: delete task", id, err)
}

func taskError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	return model.Transport(op, err)
}

// ListCategories implements remote.CategoryService.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	const op = "firestore: list categories"

	snaps, err := c.fs.Collection(c.categories).Documents(ctx).GetAll()
	if err != nil {
		return nil, model.Transport(op, err)
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CreateTime.Before(snaps[j].CreateTime)
	})

	cats := make([]model.Category, 0, len(snaps))
	for _, snap := range snaps {
		var d categoryDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, model.Transport(op, fmt.Errorf("decode category %s: %w", snap.Ref.ID, err))
		}
		cats = append(cats, toCategory(snap.Ref.ID, d))
	}
	return cats, nil
}

// CreateCategory implements remote.CategoryService.
func (c *Client) CreateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	ref, _, err := c.fs.Collection(c.categories).Add(ctx, fromCategory(cat))
	if err != nil {
		return model.Category{}, model.Transport("firestore: create category", err)
	}
	cat.ID = ref.ID
	return cat, nil
}
