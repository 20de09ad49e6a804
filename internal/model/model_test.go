package model

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidateNew(t *testing.T) {
	tests := []struct {
		name      string
		task      Task
		wantField string
	}{
		{name: "valid", task: Task{Title: "Buy milk", UserEmail: "a@x.io"}},
		{name: "valid with extras", task: Task{Title: "Gym", UserEmail: "a@x.io", Priority: "3", Time: "2024-05-01T09:00:00Z"}},
		{name: "empty title", task: Task{Title: "  ", UserEmail: "a@x.io"}, wantField: "title"},
		{name: "empty owner", task: Task{Title: "Buy milk"}, wantField: "userEmail"},
		{name: "preset id", task: Task{ID: "t1", Title: "Buy milk", UserEmail: "a@x.io"}, wantField: "id"},
		{name: "priority out of range", task: Task{Title: "x", UserEmail: "a@x.io", Priority: "11"}, wantField: "priority"},
		{name: "priority not a number", task: Task{Title: "x", UserEmail: "a@x.io", Priority: "high"}, wantField: "priority"},
		{name: "bad time", task: Task{Title: "x", UserEmail: "a@x.io", Time: "tomorrow"}, wantField: "time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.ValidateNew()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestTaskInRange(t *testing.T) {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 1, 23, 59, 59, 0, time.UTC)

	tests := []struct {
		name  string
		time  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{name: "inside", time: "2024-05-01T09:00:00Z", start: start, end: end, want: true},
		{name: "on start bound", time: "2024-05-01T00:00:00Z", start: start, end: end, want: true},
		{name: "on end bound", time: "2024-05-01T23:59:59Z", start: start, end: end, want: true},
		{name: "before", time: "2024-04-30T23:00:00Z", start: start, end: end, want: false},
		{name: "after", time: "2024-05-02T00:00:00Z", start: start, end: end, want: false},
		{name: "open start", time: "1999-01-01", end: end, want: true},
		{name: "open end", time: "2099-01-01T10:00", start: start, want: true},
		{name: "no time never matches", time: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Title: "x", Time: tt.time}
			assert.Equal(t, tt.want, task.InRange(tt.start, tt.end))
		})
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2024-05-01T09:00:00Z",
		"2024-05-01T09:00:00.123Z",
		"2024-05-01T11:00:00+02:00",
		"2024-05-01T09:00:00",
		"2024-05-01T09:00",
	} {
		got, err := ParseTime(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)) ||
			got.Truncate(time.Second).Equal(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)), s)
	}

	_, err := ParseTime("01/05/2024")
	assert.Error(t, err)
}

func TestParseRangeEnd(t *testing.T) {
	got, err := ParseRangeEnd("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 23, 59, 59, 999999999, time.UTC), got)

	task := Task{Title: "Evening", Time: "2024-05-01T21:30:00Z"}
	assert.True(t, task.InRange(time.Time{}, got), "a bare end date covers the whole day")

	got, err = ParseRangeEnd("2024-05-01T09:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), got)

	_, err = ParseRangeEnd("end of may")
	assert.Error(t, err)
}

func TestTaskPatch(t *testing.T) {
	t.Run("empty patch is rejected", func(t *testing.T) {
		err := TaskPatch{}.Validate()
		assert.True(t, IsValidation(err))
	})

	t.Run("empty title is rejected", func(t *testing.T) {
		err := TaskPatch{Title: String("")}.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, FieldTitle, ve.Field)
	})

	t.Run("apply merges only set fields", func(t *testing.T) {
		orig := Task{ID: "t1", Title: "Buy milk", Description: "2L", Priority: "2", UserEmail: "a@x.io"}
		patch := TaskPatch{Title: String("Buy oat milk"), Completed: Bool(true)}

		got := patch.Apply(orig)

		assert.Equal(t, Task{ID: "t1", Title: "Buy oat milk", Description: "2L", Completed: true, Priority: "2", UserEmail: "a@x.io"}, got)
	})

	t.Run("fields uses document names", func(t *testing.T) {
		patch := TaskPatch{Time: String("2024-05-01"), CategoryID: String("c1"), Priority: String("4")}
		assert.Equal(t, map[string]any{
			FieldTime:       "2024-05-01",
			FieldCategoryID: "c1",
			FieldPriority:   "4",
		}, patch.Fields())
	})
}

func TestCategoryValidateNew(t *testing.T) {
	assert.NoError(t, Category{Title: "Work", Color: "#FF9680"}.ValidateNew())
	assert.NoError(t, Category{Title: "Work", Color: "#abc", Icon: "briefcase"}.ValidateNew())

	for _, c := range []Category{
		{Title: "", Color: "#FF9680"},
		{Title: "Work", Color: ""},
		{Title: "Work", Color: "red"},
		{Title: "Work", Color: "#GGGGGG"},
		{ID: "c1", Title: "Work", Color: "#FF9680"},
	} {
		assert.True(t, IsValidation(c.ValidateNew()), "%+v", c)
	}

	for _, color := range DefaultCategoryColors {
		assert.NoError(t, Category{Title: "x", Color: color}.ValidateNew(), color)
	}
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("transport wraps plain errors", func(t *testing.T) {
		err := Transport("list tasks", cause)
		assert.True(t, IsTransport(err))
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "list tasks: connection refused", err.Error())
	})

	t.Run("transport keeps typed errors", func(t *testing.T) {
		nf := &NotFoundError{Resource: "task", ID: "t9"}
		assert.Same(t, nf, Transport("update task", nf))

		ve := NewValidationError("title", "must not be empty")
		assert.Same(t, ve, Transport("create task", ve))
	})

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Transport("x", nil))
	})

	t.Run("not found matches sentinel through wrapping", func(t *testing.T) {
		err := fmt.Errorf("store: %w", &NotFoundError{Resource: "task", ID: "t9"})
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, IsTransport(err))
	})
}
