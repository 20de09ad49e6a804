package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/remotetest"
)

func TestContract(t *testing.T) {
	remotetest.Run(t, func(t *testing.T) remote.Service {
		return New()
	})
}

func TestSequentialIDs(t *testing.T) {
	svc := New(WithIDGenerator(SequentialIDs("t")))
	ctx := context.Background()

	first, err := svc.CreateTask(ctx, model.Task{Title: "a", UserEmail: "a@x.io"})
	require.NoError(t, err)
	second, err := svc.CreateTask(ctx, model.Task{Title: "b", UserEmail: "a@x.io"})
	require.NoError(t, err)

	assert.Equal(t, "t1", first.ID)
	assert.Equal(t, "t2", second.ID)
}

func TestFailNext(t *testing.T) {
	svc := New()
	ctx := context.Background()

	svc.FailNext("CreateTask", errors.New("unavailable"))

	_, err := svc.CreateTask(ctx, model.Task{Title: "a", UserEmail: "a@x.io"})
	require.Error(t, err)
	assert.True(t, model.IsTransport(err))

	_, err = svc.CreateTask(ctx, model.Task{Title: "a", UserEmail: "a@x.io"})
	assert.NoError(t, err, "failure applies to one call only")
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().ListTasks(ctx)
	assert.True(t, model.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeed(t *testing.T) {
	svc := New()
	svc.Seed(model.Task{ID: "t1", Title: "Buy milk", UserEmail: "a@x.io"})
	svc.Seed(model.Task{ID: "t1", Title: "Buy oat milk", UserEmail: "a@x.io"})

	tasks, err := svc.ListTasks(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Buy oat milk", tasks[0].Title)
}
