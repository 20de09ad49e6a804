package googletasks

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/remotetest"
)

const owner = "a@x.io"

func newTestClient(t *testing.T) (*Client, *fakeTasksAPI) {
	t.Helper()
	api, srv := newFakeTasksAPI(t)
	c, err := NewFromHTTPClient(context.Background(), srv.Client(), owner, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)
	return c, api
}

func TestContract(t *testing.T) {
	remotetest.Run(t, func(t *testing.T) remote.Service {
		c, _ := newTestClient(t)
		return c
	})
}

func TestTaskIDs(t *testing.T) {
	assert.Equal(t, "l1:g2", taskID("l1", "g2"))

	listID, googleID, ok := splitTaskID("l1:g2")
	assert.True(t, ok)
	assert.Equal(t, "l1", listID)
	assert.Equal(t, "g2", googleID)

	for _, id := range []string{"", "missing", ":g2", "l1:"} {
		_, _, ok := splitTaskID(id)
		assert.False(t, ok, id)
	}
}

func TestNotes(t *testing.T) {
	task := model.Task{Priority: "3", Time: "2024-05-01T09:00:00Z", UserEmail: owner}

	tests := []struct {
		name        string
		description string
	}{
		{name: "empty", description: ""},
		{name: "one line", description: "2L, oat"},
		{name: "several lines", description: "first\nsecond"},
		{name: "mentions the prefix", description: "uptodo: is the app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := joinNotes(tt.description, task)
			description, meta := splitNotes(notes)
			assert.Equal(t, tt.description, description)
			assert.Equal(t, "3", meta.Get("priority"))
			assert.Equal(t, "2024-05-01T09:00:00Z", meta.Get("time"))
			assert.Equal(t, owner, meta.Get("owner"))
		})
	}

	t.Run("no metadata", func(t *testing.T) {
		assert.Equal(t, "plain", joinNotes("plain", model.Task{}))
		description, meta := splitNotes("plain\nnotes")
		assert.Equal(t, "plain\nnotes", description)
		assert.Empty(t, meta)

		description, meta = splitNotes("uptodo: is the app")
		assert.Equal(t, "uptodo: is the app", description)
		assert.Empty(t, meta)
	})
}

func TestDueDate(t *testing.T) {
	assert.Equal(t, "2024-05-01T00:00:00Z", dueDate("2024-05-01T23:30:00Z"))
	assert.Equal(t, "2024-04-30T00:00:00Z", dueDate("2024-05-01T01:00:00+02:00"))
	assert.Empty(t, dueDate(""))
	assert.Empty(t, dueDate("soon"))
}

func TestCreateTask_WireFormat(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	created, err := c.CreateTask(ctx, model.Task{
		Title:       "Buy milk",
		Description: "2L",
		Time:        "2024-05-01T09:00:00Z",
		Priority:    "3",
		UserEmail:   owner,
	})
	require.NoError(t, err)
	assert.Equal(t, "default-list:g1", created.ID)

	gt := api.task("default-list", "g1")
	require.NotNil(t, gt)
	assert.Equal(t, "Buy milk", gt.Title)
	assert.Equal(t, statusNeedsAction, gt.Status)
	assert.Equal(t, "2024-05-01T00:00:00Z", gt.Due)
	assert.Equal(t, "2L\nuptodo: owner=a%40x.io&priority=3&time=2024-05-01T09%3A00%3A00Z", gt.Notes)

	require.NoError(t, c.SetTaskCompleted(ctx, created.ID, true))
	gt = api.task("default-list", "g1")
	assert.Equal(t, statusCompleted, gt.Status)
	assert.NotNil(t, gt.Completed)

	require.NoError(t, c.SetTaskCompleted(ctx, created.ID, false))
	gt = api.task("default-list", "g1")
	assert.Equal(t, statusNeedsAction, gt.Status)
	assert.Nil(t, gt.Completed)
}

func TestTasksFromOtherClients(t *testing.T) {
	c, api := newTestClient(t)
	api.seed("default-list", &tasks.Task{Title: "From phone", Notes: "call back", Status: statusCompleted, Due: "2024-05-01T00:00:00.000Z"})

	got, err := c.ListTasksByOwner(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.Task{
		ID:          "default-list:g1",
		Title:       "From phone",
		Description: "call back",
		Completed:   true,
		Time:        "2024-05-01T00:00:00.000Z",
		UserEmail:   owner,
	}, got[0])
}

func TestCategories(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	work, err := c.CreateCategory(ctx, model.Category{Title: "Work", Color: "#FF9680", Icon: "briefcase"})
	require.NoError(t, err)
	assert.Equal(t, listColor(work.ID), work.Color)
	assert.Empty(t, work.Icon)

	created, err := c.CreateTask(ctx, model.Task{Title: "Report", UserEmail: owner, CategoryID: work.ID})
	require.NoError(t, err)
	assert.Equal(t, work.ID+":g2", created.ID)

	listed, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, work.ID, listed[0].CategoryID)

	t.Run("category cannot change", func(t *testing.T) {
		err := c.UpdateTask(ctx, created.ID, model.TaskPatch{CategoryID: model.String("")})
		assert.True(t, model.IsValidation(err))

		err = c.UpdateTask(ctx, created.ID, model.TaskPatch{CategoryID: model.String(work.ID), Title: model.String("Q2 report")})
		assert.NoError(t, err)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := c.CreateTask(ctx, model.Task{Title: "x", UserEmail: owner, CategoryID: "nope"})
		assert.True(t, model.IsValidation(err))
	})
}

func TestListColorIsStable(t *testing.T) {
	assert.Equal(t, listColor("abc"), listColor("abc"))
	assert.Contains(t, model.DefaultCategoryColors, listColor("abc"))
}

func TestTransportErrors(t *testing.T) {
	c, api := newTestClient(t)
	ctx := context.Background()

	api.failNext("GET /tasks/v1/users/@me/lists")
	_, err := c.ListCategories(ctx)
	assert.True(t, model.IsTransport(err))

	created, err := c.CreateTask(ctx, model.Task{Title: "x", UserEmail: owner})
	require.NoError(t, err)

	api.failNext("DELETE /tasks/v1/lists/{list}/tasks/{task}")
	err = c.DeleteTask(ctx, created.ID)
	var te *model.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "googletasks: delete task", te.Op)

	assert.True(t, model.IsNotFound(c.DeleteTask(ctx, "default-list:g404")))
}
