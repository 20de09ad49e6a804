package googletasks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	tasks "google.golang.org/api/tasks/v1"
)

// fakeTasksAPI serves the subset of the Google Tasks REST API the client
// uses. Every account starts with one default list.
type fakeTasksAPI struct {
	mu     sync.Mutex
	nextID int
	lists  []*tasks.TaskList
	items  map[string][]*tasks.Task // by list ID
	failOn string                   // "METHOD path pattern" answering 500
}

func newFakeTasksAPI(t *testing.T) (*fakeTasksAPI, *httptest.Server) {
	t.Helper()
	f := &fakeTasksAPI{items: make(map[string][]*tasks.Task)}
	f.lists = append(f.lists, &tasks.TaskList{Id: "default-list", Title: "My Tasks"})

	mux := http.NewServeMux()
	f.handle(mux, "GET /tasks/v1/users/@me/lists", f.listLists)
	f.handle(mux, "POST /tasks/v1/users/@me/lists", f.insertList)
	f.handle(mux, "GET /tasks/v1/users/@me/lists/{list}", f.getList)
	f.handle(mux, "GET /tasks/v1/lists/{list}/tasks", f.listTasks)
	f.handle(mux, "POST /tasks/v1/lists/{list}/tasks", f.insertTask)
	f.handle(mux, "GET /tasks/v1/lists/{list}/tasks/{task}", f.getTask)
	f.handle(mux, "PUT /tasks/v1/lists/{list}/tasks/{task}", f.updateTask)
	f.handle(mux, "DELETE /tasks/v1/lists/{list}/tasks/{task}", f.deleteTask)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeTasksAPI) handle(mux *http.ServeMux, pattern string, h func(w http.ResponseWriter, r *http.Request)) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failOn == pattern {
			f.failOn = ""
			writeError(w, http.StatusInternalServerError, "backend error")
			return
		}
		h(w, r)
	})
}

func (f *fakeTasksAPI) failNext(pattern string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failOn = pattern
}

func (f *fakeTasksAPI) newID() string {
	f.nextID++
	return fmt.Sprintf("g%d", f.nextID)
}

func (f *fakeTasksAPI) resolveList(id string) (*tasks.TaskList, bool) {
	if id == defaultListAlias {
		return f.lists[0], true
	}
	for _, tl := range f.lists {
		if tl.Id == id {
			return tl, true
		}
	}
	return nil, false
}

func (f *fakeTasksAPI) findTask(r *http.Request) (listID string, i int, ok bool) {
	tl, ok := f.resolveList(r.PathValue("list"))
	if !ok {
		return "", -1, false
	}
	for i, gt := range f.items[tl.Id] {
		if gt.Id == r.PathValue("task") {
			return tl.Id, i, true
		}
	}
	return tl.Id, -1, false
}

func (f *fakeTasksAPI) listLists(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, &tasks.TaskLists{Items: f.lists})
}

func (f *fakeTasksAPI) insertList(w http.ResponseWriter, r *http.Request) {
	var tl tasks.TaskList
	if err := json.NewDecoder(r.Body).Decode(&tl); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tl.Id = f.newID()
	f.lists = append(f.lists, &tl)
	writeJSON(w, &tl)
}

func (f *fakeTasksAPI) getList(w http.ResponseWriter, r *http.Request) {
	tl, ok := f.resolveList(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, tl)
}

func (f *fakeTasksAPI) listTasks(w http.ResponseWriter, r *http.Request) {
	tl, ok := f.resolveList(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, &tasks.Tasks{Items: f.items[tl.Id]})
}

func (f *fakeTasksAPI) insertTask(w http.ResponseWriter, r *http.Request) {
	tl, ok := f.resolveList(r.PathValue("list"))
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	var gt tasks.Task
	if err := json.NewDecoder(r.Body).Decode(&gt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	gt.Id = f.newID()
	f.items[tl.Id] = append(f.items[tl.Id], &gt)
	writeJSON(w, &gt)
}

func (f *fakeTasksAPI) getTask(w http.ResponseWriter, r *http.Request) {
	listID, i, ok := f.findTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, f.items[listID][i])
}

func (f *fakeTasksAPI) updateTask(w http.ResponseWriter, r *http.Request) {
	listID, i, ok := f.findTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	var gt tasks.Task
	if err := json.NewDecoder(r.Body).Decode(&gt); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	gt.Id = f.items[listID][i].Id
	f.items[listID][i] = &gt
	writeJSON(w, &gt)
}

func (f *fakeTasksAPI) deleteTask(w http.ResponseWriter, r *http.Request) {
	listID, i, ok := f.findTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	f.items[listID] = append(f.items[listID][:i], f.items[listID][i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// task returns the stored Google task, for assertions on the wire format.
func (f *fakeTasksAPI) task(listID, id string) *tasks.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, gt := range f.items[listID] {
		if gt.Id == id {
			return gt
		}
	}
	return nil
}

// seed stores gt in listID as another Google Tasks client would.
func (f *fakeTasksAPI) seed(listID string, gt *tasks.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	gt.Id = f.newID()
	f.items[listID] = append(f.items[listID], gt)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": code, "message": message},
	})
}
