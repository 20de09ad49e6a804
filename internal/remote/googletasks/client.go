package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/osvaldocariege06/Up-ToDo/internal/google"
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// defaultListAlias addresses the account's default list.
const defaultListAlias = "@default"

// Config selects the Google account and the owner of unannotated tasks.
type Config struct {
	// Account names a stored Google OAuth token.
	Account string
	// Owner is the UserEmail of tasks created outside uptodo. When empty the
	// account's e-mail address is used.
	Owner string
}

// Client implements remote.Service on Google Tasks.
type Client struct {
	svc   *tasks.Service
	owner string

	mu          sync.Mutex
	defaultList string
}

var _ remote.Service = (*Client)(nil)

// NewClient creates a Google Tasks client for the configured account. Extra
// options are passed to the underlying service after the account's HTTP
// client.
func NewClient(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	account := cfg.Account
	if account == "" {
		account = google.DefaultAccount
	}

	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	owner := cfg.Owner
	if owner == "" {
		uo, err := google.NewUserInfoOwnerForAccount(ctx, account)
		if err != nil {
			return nil, err
		}
		if owner, err = uo.OwnerID(ctx); err != nil {
			return nil, fmt.Errorf("failed to resolve the owner of account %s: %w", account, err)
		}
	}

	return NewFromHTTPClient(ctx, client, owner, opts...)
}

// NewFromHTTPClient creates a client that sends requests through hc.
func NewFromHTTPClient(ctx context.Context, hc *http.Client, owner string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(hc)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}
	return &Client{svc: svc, owner: owner}, nil
}

// Close implements remote.Service.
func (c *Client) Close() error {
	return nil
}

// defaultListID resolves and caches the ID of the default list.
func (c *Client) defaultListID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaultList != "" {
		return c.defaultList, nil
	}

	tl, err := c.svc.Tasklists.Get(defaultListAlias).Context(ctx).Do()
	if err != nil {
		return "", err
	}
	c.defaultList = tl.Id
	return c.defaultList, nil
}

// lists returns every task list of the account.
func (c *Client) lists(ctx context.Context) ([]*tasks.TaskList, error) {
	var out []*tasks.TaskList
	err := c.svc.Tasklists.List().MaxResults(100).Pages(ctx, func(page *tasks.TaskLists) error {
		out = append(out, page.Items...)
		return nil
	})
	return out, err
}

// listTasks returns the tasks of every list, keeping those keep accepts.
// dueMin and dueMax narrow the request when set.
func (c *Client) listTasks(ctx context.Context, op string, dueMin, dueMax time.Time, keep func(model.Task) bool) ([]model.Task, error) {
	defaultList, err := c.defaultListID(ctx)
	if err != nil {
		return nil, model.Transport(op, err)
	}
	lists, err := c.lists(ctx)
	if err != nil {
		return nil, model.Transport(op, err)
	}

	out := make([]model.Task, 0)
	for _, tl := range lists {
		call := c.svc.Tasks.List(tl.Id).ShowCompleted(true).ShowHidden(true).MaxResults(100)
		if !dueMin.IsZero() {
			call = call.DueMin(dueMin.Format(time.RFC3339))
		}
		if !dueMax.IsZero() {
			call = call.DueMax(dueMax.Format(time.RFC3339))
		}

		err := call.Pages(ctx, func(page *tasks.Tasks) error {
			for _, gt := range page.Items {
				if gt.Deleted {
					continue
				}
				t := toTask(tl.Id, defaultList, c.owner, gt)
				if keep == nil || keep(t) {
					out = append(out, t)
				}
			}
			return nil
		})
		if err != nil {
			return nil, model.Transport(op, fmt.Errorf("list %s: %w", tl.Id, err))
		}
	}
	return out, nil
}

// ListTasks implements remote.TaskService.
func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	return c.listTasks(ctx, "googletasks: list tasks", time.Time{}, time.Time{}, nil)
}

// ListTasksByOwner implements remote.TaskService.
func (c *Client) ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	return c.listTasks(ctx, "googletasks: list tasks by owner", time.Time{}, time.Time{}, func(t model.Task) bool {
		return t.UserEmail == owner
	})
}

// ListTasksByTimeRange implements remote.TaskService.
//
// Google keeps due dates only, so the request is widened by a day on each
// side and the exact bounds are applied to the stored times.
func (c *Client) ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	var dueMin, dueMax time.Time
	if !start.IsZero() {
		dueMin = start.UTC().AddDate(0, 0, -1)
	}
	if !end.IsZero() {
		dueMax = end.UTC().AddDate(0, 0, 1)
	}
	return c.listTasks(ctx, "googletasks: list tasks by time", dueMin, dueMax, func(t model.Task) bool {
		return t.InRange(start, end)
	})
}

// CreateTask implements remote.TaskService.
func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	const op = "googletasks: create task"

	listID := t.CategoryID
	if listID == "" {
		var err error
		if listID, err = c.defaultListID(ctx); err != nil {
			return model.Task{}, model.Transport(op, err)
		}
	}

	created, err := c.svc.Tasks.Insert(listID, fromTask(t)).Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return model.Task{}, model.NewValidationError(model.FieldCategoryID, fmt.Sprintf("unknown category %q", t.CategoryID))
		}
		return model.Task{}, model.Transport(op, err)
	}
	t.ID = taskID(listID, created.Id)
	return t, nil
}

// modify reads the task, lets fn change it and writes it back.
func (c *Client) modify(ctx context.Context, op, id string, fn func(gt *tasks.Task, t *model.Task)) error {
	listID, googleID, ok := splitTaskID(id)
	if !ok {
		return &model.NotFoundError{Resource: "task", ID: id}
	}

	defaultList, err := c.defaultListID(ctx)
	if err != nil {
		return model.Transport(op, err)
	}

	gt, err := c.svc.Tasks.Get(listID, googleID).Context(ctx).Do()
	if err != nil {
		return taskError(op, id, err)
	}

	t := toTask(listID, defaultList, c.owner, gt)
	fn(gt, &t)
	gt.Title = t.Title
	gt.Notes = joinNotes(t.Description, t)
	gt.Due = dueDate(t.Time)

	_, err = c.svc.Tasks.Update(listID, googleID, gt).Context(ctx).Do()
	return taskError(op, id, err)
}

// UpdateTask implements remote.TaskService. Patches that change the category
// are rejected.
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	if patch.CategoryID != nil {
		listID, _, ok := splitTaskID(id)
		if ok && !c.isTaskCategory(ctx, listID, *patch.CategoryID) {
			return model.NewValidationError(model.FieldCategoryID, "cannot be changed on the googletasks backend")
		}
	}

	return c.modify(ctx, "googletasks: update task", id, func(gt *tasks.Task, t *model.Task) {
		*t = patch.Apply(*t)
		if patch.Completed != nil {
			setCompleted(gt, *patch.Completed)
		}
	})
}

// isTaskCategory reports whether categoryID names listID.
func (c *Client) isTaskCategory(ctx context.Context, listID, categoryID string) bool {
	if categoryID == listID {
		return true
	}
	if categoryID != "" {
		return false
	}
	defaultList, err := c.defaultListID(ctx)
	return err == nil && defaultList == listID
}

// SetTaskCompleted implements remote.TaskService.
func (c *Client) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	return c.modify(ctx, "googletasks: set task completed", id, func(gt *tasks.Task, t *model.Task) {
		t.Completed = completed
		setCompleted(gt, completed)
	})
}

// DeleteTask implements remote.TaskService.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	listID, googleID, ok := splitTaskID(id)
	if !ok {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	err := c.svc.Tasks.Delete(listID, googleID).Context(ctx).Do()
	return taskError("googletasks: delete task", id, err)
}

// ListCategories implements remote.CategoryService.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	lists, err := c.lists(ctx)
	if err != nil {
		return nil, model.Transport("googletasks: list categories", err)
	}
	cats := make([]model.Category, 0, len(lists))
	for _, tl := range lists {
		cats = append(cats, toCategory(tl))
	}
	return cats, nil
}

// CreateCategory implements remote.CategoryService. The returned category
// carries the list's color, not the requested one.
func (c *Client) CreateCategory(ctx context.Context, cat model.Category) (model.Category, error) {
	created, err := c.svc.Tasklists.Insert(&tasks.TaskList{Title: cat.Title}).Context(ctx).Do()
	if err != nil {
		return model.Category{}, model.Transport("googletasks: create category", err)
	}
	return toCategory(created), nil
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func taskError(op, id string, err error) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return &model.NotFoundError{Resource: "task", ID: id}
	}
	return model.Transport(op, err)
}
