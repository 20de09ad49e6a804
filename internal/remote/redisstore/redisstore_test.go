package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/remotetest"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestContract(t *testing.T) {
	remotetest.Run(t, func(t *testing.T) remote.Service {
		client, _ := setupTestRedis(t)
		return New(client, "")
	})
}

func TestKeysUsePrefix(t *testing.T) {
	client, mr := setupTestRedis(t)
	svc := New(client, "test:")
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, model.Task{Title: "Buy milk", UserEmail: "a@x.io", Time: "2024-05-01T09:00:00Z"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:tasks"))
	assert.True(t, mr.Exists("test:tasks:order"))
	assert.True(t, mr.Exists("test:tasks:owner:a@x.io"))
	assert.True(t, mr.Exists("test:tasks:due"))

	score, err := mr.ZScore("test:tasks:due", created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1714554000), score)
}

func TestUpdateMovesDueIndex(t *testing.T) {
	client, mr := setupTestRedis(t)
	svc := New(client, "")
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, model.Task{Title: "Gym", UserEmail: "a@x.io", Time: "2024-05-01T09:00:00Z"})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateTask(ctx, created.ID, model.TaskPatch{Time: model.String("2024-05-02T09:00:00Z")}))
	score, err := mr.ZScore(DefaultPrefix+"tasks:due", created.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1714640400), score)

	require.NoError(t, svc.UpdateTask(ctx, created.ID, model.TaskPatch{Time: model.String("")}))
	_, err = mr.ZScore(DefaultPrefix+"tasks:due", created.ID)
	assert.Error(t, err, "clearing the time removes the task from the due index")
}

func TestDeleteClearsIndexes(t *testing.T) {
	client, mr := setupTestRedis(t)
	svc := New(client, "")
	ctx := context.Background()

	created, err := svc.CreateTask(ctx, model.Task{Title: "Gym", UserEmail: "a@x.io", Time: "2024-05-01T09:00:00Z"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteTask(ctx, created.ID))

	for _, key := range []string{"tasks:order", "tasks:owner:a@x.io", "tasks:due"} {
		members, _ := mr.ZMembers(DefaultPrefix + key)
		assert.NotContains(t, members, created.ID, key)
	}
	assert.Equal(t, "", mr.HGet(DefaultPrefix+"tasks", created.ID))
}

func TestUnavailableServerIsTransportError(t *testing.T) {
	client, mr := setupTestRedis(t)
	svc := New(client, "")
	mr.Close()

	_, err := svc.ListTasks(context.Background())
	require.Error(t, err)
	assert.True(t, model.IsTransport(err))

	_, err = svc.CreateCategory(context.Background(), model.Category{Title: "Work", Color: "#FF9680"})
	assert.True(t, model.IsTransport(err))
}

func TestDial(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	svc, err := Dial(ctx, Options{Addr: mr.Addr(), Prefix: "dial:"})
	require.NoError(t, err)
	require.NoError(t, svc.Ping(ctx))
	require.NoError(t, svc.Close())

	mr.Close()
	_, err = Dial(ctx, Options{Addr: mr.Addr()})
	assert.Error(t, err)
}
