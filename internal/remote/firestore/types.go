package firestore

import (
	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

// taskDoc is the stored layout of a task document, shared with the mobile
// client. The document ID is the task ID.
type taskDoc struct {
	Title       string `firestore:"title"`
	Description string `firestore:"description"`
	Completed   bool   `firestore:"completed"`
	Time        string `firestore:"time,omitempty"`
	CategoryID  string `firestore:"categoryId,omitempty"`
	Priority    string `firestore:"priority,omitempty"`
	UserEmail   string `firestore:"userEmail"`
}

// categoryDoc is the stored layout of a category document.
type categoryDoc struct {
	Title string `firestore:"title"`
	Color string `firestore:"color"`
	Icon  string `firestore:"icon,omitempty"`
}

// toTask converts a stored document to a Task
func toTask(id string, d taskDoc) model.Task {
	return model.Task{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Completed:   d.Completed,
		Time:        d.Time,
		CategoryID:  d.CategoryID,
		Priority:    d.Priority,
		UserEmail:   d.UserEmail,
	}
}

// fromTask converts a Task to its stored layout. The ID is not stored.
func fromTask(t model.Task) taskDoc {
	return taskDoc{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Time:        t.Time,
		CategoryID:  t.CategoryID,
		Priority:    t.Priority,
		UserEmail:   t.UserEmail,
	}
}

func toCategory(id string, d categoryDoc) model.Category {
	return model.Category{ID: id, Title: d.Title, Color: d.Color, Icon: d.Icon}
}

func fromCategory(c model.Category) categoryDoc {
	return categoryDoc{Title: c.Title, Color: c.Color, Icon: c.Icon}
}
