// Package remotetest holds the behaviour every remote.Service must share.
// Backend packages call Run from their tests.
package remotetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// Factory returns an empty service for one subtest.
type Factory func(t *testing.T) remote.Service

// Run exercises svc against the shared contract.
func Run(t *testing.T, newService Factory) {
	t.Run("CreateAssignsIDAndLists", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.CreateTask(ctx, model.Task{Title: "Buy milk", UserEmail: "a@x.io", Priority: "2"})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Buy milk", created.Title)

		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, created, tasks[0])
	})

	t.Run("ListPreservesCreationOrder", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		var want []string
		for _, title := range []string{"first", "second", "third"} {
			created, err := svc.CreateTask(ctx, model.Task{Title: title, UserEmail: "a@x.io"})
			require.NoError(t, err)
			want = append(want, created.ID)
		}

		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, ids(tasks))
	})

	t.Run("ListByOwner", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		mine, err := svc.CreateTask(ctx, model.Task{Title: "mine", UserEmail: "a@x.io"})
		require.NoError(t, err)
		_, err = svc.CreateTask(ctx, model.Task{Title: "theirs", UserEmail: "b@x.io"})
		require.NoError(t, err)

		tasks, err := svc.ListTasksByOwner(ctx, "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, []string{mine.ID}, ids(tasks))

		tasks, err = svc.ListTasksByOwner(ctx, "nobody@x.io")
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})

	t.Run("ListByTimeRangeIsInclusive", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		create := func(title, when string) string {
			created, err := svc.CreateTask(ctx, model.Task{Title: title, UserEmail: "a@x.io", Time: when})
			require.NoError(t, err)
			return created.ID
		}
		onStart := create("on start", "2024-05-01T00:00:00Z")
		inside := create("inside", "2024-05-01T12:30:00Z")
		onEnd := create("on end", "2024-05-01T23:59:59Z")
		create("before", "2024-04-30T23:59:59Z")
		create("after", "2024-05-02T00:00:00Z")
		create("no time", "")

		start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)
		tasks, err := svc.ListTasksByTimeRange(ctx, start, end)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{onStart, inside, onEnd}, ids(tasks))

		tasks, err = svc.ListTasksByTimeRange(ctx, time.Time{}, start)
		require.NoError(t, err)
		assert.Len(t, tasks, 2, "open start bound")
	})

	t.Run("UpdateMergesPartialFields", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.CreateTask(ctx, model.Task{Title: "Buy milk", Description: "2L", UserEmail: "a@x.io"})
		require.NoError(t, err)

		require.NoError(t, svc.UpdateTask(ctx, created.ID, model.TaskPatch{
			Title:    model.String("Buy oat milk"),
			Priority: model.String("5"),
		}))

		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "Buy oat milk", tasks[0].Title)
		assert.Equal(t, "2L", tasks[0].Description)
		assert.Equal(t, "5", tasks[0].Priority)
		assert.Equal(t, "a@x.io", tasks[0].UserEmail)
	})

	t.Run("SetCompleted", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		created, err := svc.CreateTask(ctx, model.Task{Title: "Buy milk", UserEmail: "a@x.io"})
		require.NoError(t, err)

		require.NoError(t, svc.SetTaskCompleted(ctx, created.ID, true))
		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.True(t, tasks[0].Completed)

		require.NoError(t, svc.SetTaskCompleted(ctx, created.ID, false))
		tasks, err = svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.False(t, tasks[0].Completed)
	})

	t.Run("Delete", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		keep, err := svc.CreateTask(ctx, model.Task{Title: "keep", UserEmail: "a@x.io", Time: "2024-05-01T10:00:00Z"})
		require.NoError(t, err)
		gone, err := svc.CreateTask(ctx, model.Task{Title: "gone", UserEmail: "a@x.io", Time: "2024-05-01T11:00:00Z"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteTask(ctx, gone.ID))

		tasks, err := svc.ListTasks(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{keep.ID}, ids(tasks))

		byOwner, err := svc.ListTasksByOwner(ctx, "a@x.io")
		require.NoError(t, err)
		assert.Equal(t, []string{keep.ID}, ids(byOwner))

		byTime, err := svc.ListTasksByTimeRange(ctx, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.Equal(t, []string{keep.ID}, ids(byTime))
	})

	t.Run("UnknownIDIsNotFound", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		assert.True(t, model.IsNotFound(svc.UpdateTask(ctx, "missing", model.TaskPatch{Title: model.String("x")})))
		assert.True(t, model.IsNotFound(svc.SetTaskCompleted(ctx, "missing", true)))
		assert.True(t, model.IsNotFound(svc.DeleteTask(ctx, "missing")))
	})

	t.Run("Categories", func(t *testing.T) {
		svc := newService(t)
		ctx := context.Background()

		before, err := svc.ListCategories(ctx)
		require.NoError(t, err)

		work, err := svc.CreateCategory(ctx, model.Category{Title: "Work", Color: "#FF9680", Icon: "briefcase"})
		require.NoError(t, err)
		assert.NotEmpty(t, work.ID)
		home, err := svc.CreateCategory(ctx, model.Category{Title: "Home", Color: "#80FFFF"})
		require.NoError(t, err)

		cats, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Equal(t, append(before, work, home), cats)
	})
}

func ids(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
