package model

import "strings"

// Document field names used by every backend.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCompleted   = "completed"
	FieldTime        = "time"
	FieldCategoryID  = "categoryId"
	FieldPriority    = "priority"
	FieldUserEmail   = "userEmail"
)

// TaskPatch is a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Time        *string
	CategoryID  *string
	Priority    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Time == nil && p.CategoryID == nil && p.Priority == nil
}

// Validate rejects empty patches and patches that would break a task.
func (p TaskPatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("patch", "at least one field must be set")
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return NewValidationError(FieldTitle, "must not be empty")
	}
	if p.Priority != nil {
		if err := ValidatePriority(*p.Priority); err != nil {
			return err
		}
	}
	if p.Time != nil {
		if err := ValidateTime(*p.Time); err != nil {
			return err
		}
	}
	return nil
}

// Apply returns t with the patch merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Time != nil {
		t.Time = *p.Time
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	return t
}

// Fields returns the set fields keyed by document field name.
func (p TaskPatch) Fields() map[string]any {
	fields := make(map[string]any, 6)
	if p.Title != nil {
		fields[FieldTitle] = *p.Title
	}
	if p.Description != nil {
		fields[FieldDescription] = *p.Description
	}
	if p.Completed != nil {
		fields[FieldCompleted] = *p.Completed
	}
	if p.Time != nil {
		fields[FieldTime] = *p.Time
	}
	if p.CategoryID != nil {
		fields[FieldCategoryID] = *p.CategoryID
	}
	if p.Priority != nil {
		fields[FieldPriority] = *p.Priority
	}
	return fields
}

// String returns a pointer to s, for building patches.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for building patches.
func Bool(b bool) *bool { return &b }
