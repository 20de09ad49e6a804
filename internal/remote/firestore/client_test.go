package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote"
	"github.com/osvaldocariege06/Up-ToDo/internal/remote/remotetest"
)

func TestToTask(t *testing.T) {
	d := taskDoc{
		Title:       "Buy milk",
		Description: "2L",
		Completed:   true,
		Time:        "2024-05-01T09:00:00Z",
		CategoryID:  "c1",
		Priority:    "3",
		UserEmail:   "a@x.io",
	}

	got := toTask("t1", d)

	want := model.Task{
		ID:          "t1",
		Title:       "Buy milk",
		Description: "2L",
		Completed:   true,
		Time:        "2024-05-01T09:00:00Z",
		CategoryID:  "c1",
		Priority:    "3",
		UserEmail:   "a@x.io",
	}
	if got != want {
		t.Errorf("toTask() = %+v, want %+v", got, want)
	}
	if back := fromTask(got); back != d {
		t.Errorf("fromTask() = %+v, want %+v", back, d)
	}
}

func TestFromTaskDropsID(t *testing.T) {
	d := fromTask(model.Task{ID: "t1", Title: "x", UserEmail: "a@x.io"})
	if d.Title != "x" || d.UserEmail != "a@x.io" {
		t.Errorf("fromTask() = %+v", d)
	}
}

func TestCategoryConverters(t *testing.T) {
	c := toCategory("c1", categoryDoc{Title: "Work", Color: "#FF9680", Icon: "briefcase"})
	if c != (model.Category{ID: "c1", Title: "Work", Color: "#FF9680", Icon: "briefcase"}) {
		t.Errorf("toCategory() = %+v", c)
	}
	if d := fromCategory(c); d != (categoryDoc{Title: "Work", Color: "#FF9680", Icon: "briefcase"}) {
		t.Errorf("fromCategory() = %+v", d)
	}
}

func TestNewClientRequiresProject(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	if !model.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

// TestContract runs against the Firestore emulator. Each subtest writes to
// its own collections so runs do not interfere.
func TestContract(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	remotetest.Run(t, func(t *testing.T) remote.Service {
		suffix := uuid.NewString()
		c, err := NewClient(context.Background(), Config{
			ProjectID:            "uptodo-test",
			TasksCollection:      "tasks-" + suffix,
			CategoriesCollection: "categories-" + suffix,
		})
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}
		t.Cleanup(func() { _ = c.Close() })
		return c
	})
}
