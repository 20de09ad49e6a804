package model

import (
	"strconv"
	"strings"
	"time"
)

// Task is a unit of work owned by a user.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
	Time        string `json:"time,omitempty" yaml:"time,omitempty"`             // ISO-8601 due time
	CategoryID  string `json:"categoryId,omitempty" yaml:"categoryId,omitempty"` // Category.ID, by value only
	Priority    string `json:"priority,omitempty" yaml:"priority,omitempty"`     // "0".."10", empty when unset
	UserEmail   string `json:"userEmail" yaml:"userEmail"`                       // Owner identifier
}

// MaxPriority is the highest priority token accepted.
const MaxPriority = 10

// ValidateNew checks a task before it is sent to a backend for creation.
func (t Task) ValidateNew() error {
	if t.ID != "" {
		return NewValidationError("id", "must be empty before creation")
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(t.UserEmail) == "" {
		return NewValidationError("userEmail", "must not be empty")
	}
	if err := ValidatePriority(t.Priority); err != nil {
		return err
	}
	return ValidateTime(t.Time)
}

// DueTime parses Time. ok is false when Time is empty or unparseable.
func (t Task) DueTime() (due time.Time, ok bool) {
	if t.Time == "" {
		return time.Time{}, false
	}
	due, err := ParseTime(t.Time)
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// InRange reports whether the task's due time lies in [start, end].
// A zero bound is open. Tasks without a due time never match.
func (t Task) InRange(start, end time.Time) bool {
	due, ok := t.DueTime()
	if !ok {
		return false
	}
	if !start.IsZero() && due.Before(start) {
		return false
	}
	if !end.IsZero() && due.After(end) {
		return false
	}
	return true
}

// ValidatePriority accepts an empty token or a decimal integer in 0..MaxPriority.
func ValidatePriority(p string) error {
	if p == "" {
		return nil
	}
	n, err := strconv.Atoi(p)
	if err != nil || n < 0 || n > MaxPriority {
		return NewValidationError("priority", "must be an integer between 0 and "+strconv.Itoa(MaxPriority))
	}
	return nil
}

// ValidateTime accepts an empty string or any layout ParseTime understands.
func ValidateTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := ParseTime(s); err != nil {
		return NewValidationError("time", "must be an ISO-8601 timestamp")
	}
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime parses the ISO-8601 forms produced by the mobile client and the CLI.
// Values without an offset are read as UTC.
func ParseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// ParseRangeEnd parses the inclusive end of a time range. A bare date covers
// the whole day, so it resolves to the last instant of that day.
func ParseRangeEnd(s string) (time.Time, error) {
	if day, err := time.Parse(time.DateOnly, s); err == nil {
		return day.Add(24*time.Hour - time.Nanosecond), nil
	}
	return ParseTime(s)
}

// FormatTime renders t the way tasks store their due time.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
