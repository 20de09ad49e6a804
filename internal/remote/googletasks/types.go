package googletasks

import (
	"hash/fnv"
	"net/url"
	"strings"
	"time"

	tasks "google.golang.org/api/tasks/v1"

	"github.com/osvaldocariege06/Up-ToDo/internal/model"
)

// Task status values used by the Google Tasks API.
const (
	statusNeedsAction = "needsAction"
	statusCompleted   = "completed"
)

// metaPrefix starts the notes line holding the fields Google Tasks lacks.
const metaPrefix = "uptodo: "

const idSeparator = ":"

// taskID joins a list ID and a Google task ID into a task ID.
func taskID(listID, id string) string {
	return listID + idSeparator + id
}

// splitTaskID reverses taskID. ok is false when id is not a joined ID.
func splitTaskID(id string) (listID, googleID string, ok bool) {
	listID, googleID, ok = strings.Cut(id, idSeparator)
	if !ok || listID == "" || googleID == "" {
		return "", "", false
	}
	return listID, googleID, true
}

// splitNotes separates the description from the metadata line.
func splitNotes(notes string) (description string, meta url.Values) {
	meta = url.Values{}
	i := strings.LastIndex(notes, metaPrefix)
	if i < 0 || (i > 0 && notes[i-1] != '\n') || strings.Contains(notes[i:], "\n") {
		return notes, meta
	}
	parsed, err := url.ParseQuery(notes[i+len(metaPrefix):])
	if err != nil || !(parsed.Has("owner") || parsed.Has("priority") || parsed.Has("time")) {
		return notes, meta
	}
	return strings.TrimSuffix(notes[:i], "\n"), parsed
}

// joinNotes appends the metadata line to description.
func joinNotes(description string, t model.Task) string {
	meta := url.Values{}
	if t.UserEmail != "" {
		meta.Set("owner", t.UserEmail)
	}
	if t.Priority != "" {
		meta.Set("priority", t.Priority)
	}
	if t.Time != "" {
		meta.Set("time", t.Time)
	}
	if len(meta) == 0 {
		return description
	}
	line := metaPrefix + meta.Encode()
	if description == "" {
		return line
	}
	return description + "\n" + line
}

// dueDate renders a due time the way Google Tasks stores it: the date at
// midnight UTC.
func dueDate(when string) string {
	if when == "" {
		return ""
	}
	t, err := model.ParseTime(when)
	if err != nil {
		return ""
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
}

// toTask converts a Google task in listID to a Task. defaultList is the
// account's default list, whose tasks have no category.
func toTask(listID, defaultList, defaultOwner string, gt *tasks.Task) model.Task {
	description, meta := splitNotes(gt.Notes)

	t := model.Task{
		ID:          taskID(listID, gt.Id),
		Title:       gt.Title,
		Description: description,
		Completed:   gt.Status == statusCompleted,
		Time:        meta.Get("time"),
		Priority:    meta.Get("priority"),
		UserEmail:   meta.Get("owner"),
	}
	if listID != defaultList {
		t.CategoryID = listID
	}
	if t.UserEmail == "" {
		t.UserEmail = defaultOwner
	}
	if t.Time == "" && gt.Due != "" {
		t.Time = gt.Due
	}
	return t
}

// fromTask converts a Task to the Google representation. The ID is not set.
func fromTask(t model.Task) *tasks.Task {
	gt := &tasks.Task{
		Title:  t.Title,
		Notes:  joinNotes(t.Description, t),
		Status: statusNeedsAction,
		Due:    dueDate(t.Time),
	}
	setCompleted(gt, t.Completed)
	return gt
}

func setCompleted(gt *tasks.Task, completed bool) {
	if completed {
		gt.Status = statusCompleted
		if gt.Completed == nil {
			now := time.Now().UTC().Format(time.RFC3339)
			gt.Completed = &now
		}
		return
	}
	gt.Status = statusNeedsAction
	gt.Completed = nil
}

// listColor picks a stable palette color for a list.
func listColor(listID string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(listID))
	return model.DefaultCategoryColors[h.Sum32()%uint32(len(model.DefaultCategoryColors))]
}

func toCategory(tl *tasks.TaskList) model.Category {
	return model.Category{ID: tl.Id, Title: tl.Title, Color: listColor(tl.Id)}
}
