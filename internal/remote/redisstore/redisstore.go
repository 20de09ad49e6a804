// Package redisstore is a remote.Service backed by Redis.
//
// Records are stored as JSON in two hashes, one per collection. Sorted sets
// index them by creation order, by owner, and by due time:
//
//	<prefix>tasks                hash   id -> task JSON
//	<prefix>tasks:order          zset   id scored by creation sequence
//	<prefix>tasks:owner:<email>  zset   id scored by creation sequence
//	<prefix>tasks:due            zset   id scored by due time (unix seconds)
//	<prefix>categories           hash   id -> category JSON
//	<prefix>categories:order     zset   id scored by creation sequence
//	<prefix>seq                  string creation sequence counter
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "uptodo:"

// maxTxRetries bounds optimistic transaction retries on concurrent writes.
const maxTxRetries = 5

// Options configures a connection created by Dial.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Service implements remote.Service on a Redis client.
type Service struct {
	rdb    *redis.Client
	prefix string
	owned  bool
	newID  func() string
}

var _ remote.Service = (*Service)(nil)

// New wraps an existing client. The caller keeps ownership of rdb.
func New(rdb *redis.Client, prefix string) *Service {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Service{rdb: rdb, prefix: prefix, newID: uuid.NewString}
}

// Dial connects to Redis and verifies the connection with PING.
func Dial(ctx context.Context, opts Options) (*Service, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}
	s := New(rdb, opts.Prefix)
	s.owned = true
	return s, nil
}

// Ping checks the connection.
func (s *Service) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the client if the store opened it.
func (s *Service) Close() error {
	if !s.owned {
		return nil
	}
	return s.rdb.Close()
}

func (s *Service) tasksKey() string             { return s.prefix + "tasks" }
func (s *Service) taskOrderKey() string         { return s.prefix + "tasks:order" }
func (s *Service) ownerKey(email string) string { return s.prefix + "tasks:owner:" + email }
func (s *Service) dueKey() string               { return s.prefix + "tasks:due" }
func (s *Service) categoriesKey() string        { return s.prefix + "categories" }
func (s *Service) categoryOrderKey() string     { return s.prefix + "categories:order" }
func (s *Service) seqKey() string               { return s.prefix + "seq" }

// ListTasks implements remote.TaskService.
func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	ids, err := s.rdb.ZRange(ctx, s.taskOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, model.Transport("redis: list tasks", err)
	}
	return s.loadTasks(ctx, "redis: list tasks", ids)
}

// ListTasksByOwner implements remote.TaskService.
func (s *Service) ListTasksByOwner(ctx context.Context, owner string) ([]model.Task, error) {
	ids, err := s.rdb.ZRange(ctx, s.ownerKey(owner), 0, -1).Result()
	if err != nil {
		return nil, model.Transport("redis: list tasks by owner", err)
	}
	return s.loadTasks(ctx, "redis: list tasks by owner", ids)
}

// ListTasksByTimeRange implements remote.TaskService. The due index has
// one-second resolution, so candidates are re-checked against the exact bounds.
func (s *Service) ListTasksByTimeRange(ctx context.Context, start, end time.Time) ([]model.Task, error) {
	by := &redis.ZRangeBy{Min: "-inf", Max: "+inf"}
	if !start.IsZero() {
		by.Min = strconv.FormatInt(start.Unix(), 10)
	}
	if !end.IsZero() {
		by.Max = strconv.FormatInt(end.Unix(), 10)
	}

	ids, err := s.rdb.ZRangeByScore(ctx, s.dueKey(), by).Result()
	if err != nil {
		return nil, model.Transport("redis: list tasks by time", err)
	}
	candidates, err := s.loadTasks(ctx, "redis: list tasks by time", ids)
	if err != nil {
		return nil, err
	}

	tasks := candidates[:0]
	for _, t := range candidates {
		if t.InRange(start, end) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// loadTasks resolves ids against the task hash, skipping ids whose record
// disappeared between the index read and the hash read.
func (s *Service) loadTasks(ctx context.Context, op string, ids []string) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(ids))
	if len(ids) == 0 {
		return tasks, nil
	}

	vals, err := s.rdb.HMGet(ctx, s.tasksKey(), ids...).Result()
	if err != nil {
		return nil, model.Transport(op, err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		t, err := decodeTask(ids[i], raw)
		if err != nil {
			return nil, model.Transport(op, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask implements remote.TaskService.
func (s *Service) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	const op = "redis: create task"

	t.ID = s.newID()
	raw, err := json.Marshal(t)
	if err != nil {
		return model.Task{}, model.Transport(op, err)
	}

	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return model.Task{}, model.Transport(op, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.tasksKey(), t.ID, raw)
		pipe.ZAdd(ctx, s.taskOrderKey(), redis.Z{Score: float64(seq), Member: t.ID})
		pipe.ZAdd(ctx, s.ownerKey(t.UserEmail), redis.Z{Score: float64(seq), Member: t.ID})
		if due, ok := t.DueTime(); ok {
			pipe.ZAdd(ctx, s.dueKey(), redis.Z{Score: float64(due.Unix()), Member: t.ID})
		}
		return nil
	})
	if err != nil {
		return model.Task{}, model.Transport(op, err)
	}
	return t, nil
}

// UpdateTask implements remote.TaskService.
func (s *Service) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) error {
	return s.modifyTask(ctx, "redis: update task", id, patch)
}

// SetTaskCompleted implements remote.TaskService.
func (s *Service) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	return s.modifyTask(ctx, "redis: set task completed", id, model.TaskPatch{Completed: &completed})
}

func (s *Service) modifyTask(ctx context.Context, op, id string, patch model.TaskPatch) error {
	txf := func(tx *redis.Tx) error {
		current, err := s.getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		updated := patch.Apply(current)
		raw, err := json.Marshal(updated)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.tasksKey(), id, raw)
			if patch.Time != nil {
				if due, ok := updated.DueTime(); ok {
					pipe.ZAdd(ctx, s.dueKey(), redis.Z{Score: float64(due.Unix()), Member: id})
				} else {
					pipe.ZRem(ctx, s.dueKey(), id)
				}
			}
			return nil
		})
		return err
	}
	return model.Transport(op, s.watch(ctx, txf))
}

// DeleteTask implements remote.TaskService.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	txf := func(tx *redis.Tx) error {
		current, err := s.getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HDel(ctx, s.tasksKey(), id)
			pipe.ZRem(ctx, s.taskOrderKey(), id)
			pipe.ZRem(ctx, s.ownerKey(current.UserEmail), id)
			pipe.ZRem(ctx, s.dueKey(), id)
			return nil
		})
		return err
	}
	return model.Transport("redis: delete task", s.watch(ctx, txf))
}

// watch runs txf under WATCH on the task hash, retrying when another client
// modified it first.
func (s *Service) watch(ctx context.Context, txf func(*redis.Tx) error) error {
	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.rdb.Watch(ctx, txf, s.tasksKey())
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return err
}

func (s *Service) getTask(ctx context.Context, tx *redis.Tx, id string) (model.Task, error) {
	raw, err := tx.HGet(ctx, s.tasksKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return model.Task{}, &model.NotFoundError{Resource: "task", ID: id}
	}
	if err != nil {
		return model.Task{}, err
	}
	return decodeTask(id, raw)
}

func decodeTask(id, raw string) (model.Task, error) {
	var t model.Task
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return model.Task{}, fmt.Errorf("decode task %s: %w", id, err)
	}
	t.ID = id
	return t, nil
}

// ListCategories implements remote.CategoryService.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	const op = "redis: list categories"

	ids, err := s.rdb.ZRange(ctx, s.categoryOrderKey(), 0, -1).Result()
	if err != nil {
		return nil, model.Transport(op, err)
	}
	cats := make([]model.Category, 0, len(ids))
	if len(ids) == 0 {
		return cats, nil
	}

	vals, err := s.rdb.HMGet(ctx, s.categoriesKey(), ids...).Result()
	if err != nil {
		return nil, model.Transport(op, err)
	}
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var c model.Category
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, model.Transport(op, fmt.Errorf("decode category %s: %w", ids[i], err))
		}
		c.ID = ids[i]
		cats = append(cats, c)
	}
	return cats, nil
}

// CreateCategory implements remote.CategoryService.
func (s *Service) CreateCategory(ctx context.Context, c model.Category) (model.Category, error) {
	const op = "redis: create category"

	c.ID = s.newID()
	raw, err := json.Marshal(c)
	if err != nil {
		return model.Category{}, model.Transport(op, err)
	}

	seq, err := s.rdb.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return model.Category{}, model.Transport(op, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.categoriesKey(), c.ID, raw)
		pipe.ZAdd(ctx, s.categoryOrderKey(), redis.Z{Score: float64(seq), Member: c.ID})
		return nil
	})
	if err != nil {
		return model.Category{}, model.Transport(op, err)
	}
	return c, nil
}
