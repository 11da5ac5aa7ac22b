package logic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	charmLog "github.com/charmbracelet/log"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/config"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/logging"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
)

// fakeServer is an in-memory task collection with request counters.
type fakeServer struct {
	tasks   []api.Task
	nextID  int
	fail    bool
	gets    int32
	posts   int32
	puts    int32
	deletes int32
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.fail {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}

	id := api.TaskID(strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/task"), "/"))
	switch r.Method {
	case http.MethodGet:
		atomic.AddInt32(&f.gets, 1)
		json.NewEncoder(w).Encode(f.tasks)
	case http.MethodPost:
		atomic.AddInt32(&f.posts, 1)
		var req api.CreateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.nextID++
		task := api.Task{ID: api.TaskID(itoa(f.nextID)), Title: req.Title}
		f.tasks = append(f.tasks, task)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(task)
	case http.MethodPut:
		atomic.AddInt32(&f.puts, 1)
		var req api.UpdateTaskRequest
		json.NewDecoder(r.Body).Decode(&req)
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				f.tasks[i].Title = req.Title
				json.NewEncoder(w).Encode(f.tasks[i])
				return
			}
		}
		http.NotFound(w, r)
	case http.MethodDelete:
		atomic.AddInt32(&f.deletes, 1)
		for i := range f.tasks {
			if f.tasks[i].ID == id {
				f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		http.NotFound(w, r)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func newTestHandler(t *testing.T, srv *fakeServer) (*Handler, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	client := api.NewClient(server.URL + "/task")
	s := state.New(client, config.DefaultConfig(), logging.NewWriter(&logs, charmLog.DebugLevel), locale.New("en"))
	return NewHandler(context.Background(), s), &logs
}

// run executes cmd synchronously and feeds its message back into Update.
func run(h *Handler, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return h.Update(cmd())
}

func taskTitles(tasks []api.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = string(t.ID) + ":" + t.Title
	}
	return out
}

func TestLoadTasks_ReplacesList(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "1", Title: "Buy milk"}, {ID: "2", Title: "Walk dog"}}}
	h, _ := newTestHandler(t, srv)
	h.Tasks = []api.Task{{ID: "old", Title: "stale"}}

	cmd := h.LoadTasks()
	if !h.Loading {
		t.Fatal("expected Loading while the load is outstanding")
	}
	run(h, cmd)

	if h.Loading {
		t.Error("expected Loading to be cleared")
	}
	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:Buy milk,2:Walk dog" {
		t.Errorf("unexpected tasks %s", got)
	}
}

func TestLoadTasks_FailureKeepsListAndClearsLoading(t *testing.T) {
	srv := &fakeServer{fail: true}
	h, logs := newTestHandler(t, srv)

	run(h, h.LoadTasks())

	if h.Loading {
		t.Error("expected Loading to be cleared after failure")
	}
	if len(h.Tasks) != 0 {
		t.Errorf("expected empty list, got %v", h.Tasks)
	}
	if !strings.Contains(logs.String(), "Failed to load tasks") {
		t.Errorf("expected failure log, got %q", logs.String())
	}
	if !strings.Contains(logs.String(), "request_id=") {
		t.Errorf("expected request id in log, got %q", logs.String())
	}
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestLoadTasks_NetworkErrorDoesNotPanic(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "1", Title: "kept"}}
	h.Client.SetHTTPClient(&http.Client{Transport: failingTransport{}})

	run(h, h.LoadTasks())

	if h.Loading {
		t.Error("expected Loading to be cleared")
	}
	if len(h.Tasks) != 1 || h.Tasks[0].Title != "kept" {
		t.Errorf("expected stale list to be kept, got %v", h.Tasks)
	}
}

func TestLoadTasks_SupersededLoadIsDropped(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})

	first := h.Requests.IssueLoad()
	second := h.Requests.IssueLoad()
	h.Loading = true

	h.Update(tasksLoadedMsg{ticket: second, tasks: []api.Task{{ID: "2", Title: "new"}}})
	h.Update(tasksLoadedMsg{ticket: first, tasks: []api.Task{{ID: "1", Title: "old"}}})

	if got := strings.Join(taskTitles(h.Tasks), ","); got != "2:new" {
		t.Errorf("late response overwrote newer state: %s", got)
	}
	if h.Loading {
		t.Error("expected Loading to be cleared by the latest load")
	}
}

func TestLoadTasks_OvertakenByMutationReloads(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "1", Title: "a"}}, nextID: 1}
	h, _ := newTestHandler(t, srv)

	h.Tasks = []api.Task{{ID: "1", Title: "a"}}

	// The load goes out, then a create completes before its response is applied.
	stale := h.Requests.IssueLoad()
	h.Loading = true
	h.Input.SetValue("b")
	run(h, h.CreateTask())

	reload := h.Update(tasksLoadedMsg{ticket: stale, tasks: []api.Task{{ID: "1", Title: "a"}}})
	if reload == nil {
		t.Fatal("expected a fresh load to be issued")
	}
	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:a,2:b" {
		t.Errorf("stale load erased local change: %s", got)
	}
	if !h.Loading {
		t.Error("expected Loading while the fresh load is outstanding")
	}

	run(h, reload)
	if h.Loading {
		t.Error("expected Loading cleared after fresh load")
	}
	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:a,2:b" {
		t.Errorf("unexpected tasks after reload: %s", got)
	}
}

func TestCreateTask_AppendsOnceAndClearsInput(t *testing.T) {
	srv := &fakeServer{nextID: 41}
	h, _ := newTestHandler(t, srv)
	h.Tasks = []api.Task{{ID: "1", Title: "Existing"}}
	h.Input.SetValue("Buy milk")

	run(h, h.CreateTask())

	count := 0
	for _, task := range h.Tasks {
		if task.Title == "Buy milk" {
			count++
			if task.ID != "42" {
				t.Errorf("expected server-assigned id 42, got %q", task.ID)
			}
		}
	}
	if count != 1 {
		t.Errorf("expected created task exactly once, found %d", count)
	}
	if h.Input.Value() != "" {
		t.Errorf("expected empty input, got %q", h.Input.Value())
	}
	if atomic.LoadInt32(&srv.gets) != 0 {
		t.Errorf("expected no reload after create, got %d GETs", srv.gets)
	}
	if h.StatusMsg != "Task added" {
		t.Errorf("unexpected status %q", h.StatusMsg)
	}
}

func TestCreateTask_NoDuplicateWhenReloadWonTheRace(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "7", Title: "Buy milk"}}

	h.Update(taskCreatedMsg{title: "Buy milk", task: &api.Task{ID: "7", Title: "Buy milk"}})

	if len(h.Tasks) != 1 {
		t.Errorf("expected one entry, got %v", h.Tasks)
	}
}

func TestCreateTask_KeepsTextTypedAfterSubmit(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Input.SetValue("Buy milk and bread")

	h.Update(taskCreatedMsg{title: "Buy milk", task: &api.Task{ID: "1", Title: "Buy milk"}})

	if h.Input.Value() != "Buy milk and bread" {
		t.Errorf("input typed after submit was lost: %q", h.Input.Value())
	}
}

func TestCreateTask_FailureKeepsInput(t *testing.T) {
	srv := &fakeServer{fail: true}
	h, logs := newTestHandler(t, srv)
	h.Input.SetValue("Buy milk")

	run(h, h.CreateTask())

	if len(h.Tasks) != 0 {
		t.Errorf("expected no tasks, got %v", h.Tasks)
	}
	if h.Input.Value() != "Buy milk" {
		t.Errorf("expected input to be retained, got %q", h.Input.Value())
	}
	if !strings.Contains(logs.String(), "Failed to add task") {
		t.Errorf("expected failure log, got %q", logs.String())
	}
}

func TestStartEditing(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	task := api.Task{ID: "3", Title: "Old"}

	h.SetFocus(state.FocusList)
	h.StartEditing(task)

	got, ok := h.Mode.EditingTask()
	if !ok || got != task {
		t.Fatalf("expected editing %v, got %v (%v)", task, got, ok)
	}
	if h.Input.Value() != "Old" {
		t.Errorf("expected input %q, got %q", "Old", h.Input.Value())
	}
	if h.Focus != state.FocusInput {
		t.Errorf("expected input focus, got %v", h.Focus)
	}
}

func TestSaveTask_ReplacesOnlyMatchingEntry(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "1", Title: "One"}, {ID: "3", Title: "Old"}, {ID: "4", Title: "Four"}}}
	h, _ := newTestHandler(t, srv)
	run(h, h.LoadTasks())

	h.StartEditing(api.Task{ID: "3", Title: "Old"})
	h.Input.SetValue("New")
	run(h, h.SaveTask())

	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:One,3:New,4:Four" {
		t.Errorf("unexpected tasks %s", got)
	}
	if h.Mode.IsEditing() {
		t.Error("expected edit mode to be exited")
	}
	if h.Input.Value() != "" {
		t.Errorf("expected empty input, got %q", h.Input.Value())
	}
	if atomic.LoadInt32(&srv.gets) != 1 {
		t.Errorf("expected no reload after update, got %d GETs", srv.gets)
	}
}

func TestSaveTask_IdleIsNoop(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	if cmd := h.SaveTask(); cmd != nil {
		t.Error("expected no command outside edit mode")
	}
}

func TestSaveTask_FailureStaysInEditMode(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "3", Title: "Old"}}}
	h, logs := newTestHandler(t, srv)
	run(h, h.LoadTasks())

	h.StartEditing(h.Tasks[0])
	h.Input.SetValue("New")
	srv.fail = true
	run(h, h.SaveTask())

	if !h.Mode.IsEditingTask("3") {
		t.Error("expected to remain in edit mode")
	}
	if h.Input.Value() != "New" {
		t.Errorf("expected buffer retained, got %q", h.Input.Value())
	}
	if h.Tasks[0].Title != "Old" {
		t.Errorf("expected entry unchanged, got %q", h.Tasks[0].Title)
	}
	if !strings.Contains(logs.String(), "Failed to update task") {
		t.Errorf("expected failure log, got %q", logs.String())
	}
}

func TestSaveTask_SupersededResponseIgnored(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "3", Title: "Old"}}

	first := h.Requests.IssueSave("3")
	second := h.Requests.IssueSave("3")

	h.Update(taskUpdatedMsg{id: "3", seq: second, task: &api.Task{ID: "3", Title: "Second"}})
	h.Update(taskUpdatedMsg{id: "3", seq: first, task: &api.Task{ID: "3", Title: "First"}})

	if h.Tasks[0].Title != "Second" {
		t.Errorf("older save overwrote newer one: %q", h.Tasks[0].Title)
	}
}

func TestSaveTask_OlderSuccessAppliedWhenNewerFails(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "1", Title: "Old"}}}
	h, _ := newTestHandler(t, srv)
	run(h, h.LoadTasks())

	h.StartEditing(h.Tasks[0])
	h.Input.SetValue("New")
	older := h.SaveTask()
	h.Input.SetValue("Newer")
	newer := h.SaveTask()

	olderMsg := older()
	srv.fail = true
	newerMsg := newer()

	h.Update(olderMsg)
	h.Update(newerMsg)

	if srv.tasks[0].Title != "New" {
		t.Fatalf("expected server title New, got %q", srv.tasks[0].Title)
	}
	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:New" {
		t.Errorf("local list does not mirror the successful save: %s", got)
	}
	if !h.Mode.IsEditingTask("1") {
		t.Error("expected to remain in edit mode after the newer save failed")
	}
	if h.Input.Value() != "Newer" {
		t.Errorf("expected buffer retained, got %q", h.Input.Value())
	}
}

func TestSaveTask_OlderSuccessKeepsEditingUntilNewestLands(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "3", Title: "Old"}}
	h.StartEditing(h.Tasks[0])

	first := h.Requests.IssueSave("3")
	second := h.Requests.IssueSave("3")

	h.Update(taskUpdatedMsg{id: "3", seq: first, task: &api.Task{ID: "3", Title: "First"}})
	if h.Tasks[0].Title != "First" {
		t.Errorf("expected first save applied, got %q", h.Tasks[0].Title)
	}
	if !h.Mode.IsEditingTask("3") {
		t.Error("expected edit mode kept while a newer save is in flight")
	}

	h.Update(taskUpdatedMsg{id: "3", seq: second, task: &api.Task{ID: "3", Title: "Second"}})
	if h.Tasks[0].Title != "Second" {
		t.Errorf("expected second save applied, got %q", h.Tasks[0].Title)
	}
	if h.Mode.IsEditing() {
		t.Error("expected edit mode exited once the newest save landed")
	}
}

func TestSaveTask_ResponseAfterSwitchingTaskKeepsNewEdit(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "3", Title: "Old"}, {ID: "4", Title: "Other"}}

	h.StartEditing(h.Tasks[0])
	seq := h.Requests.IssueSave("3")
	h.StartEditing(h.Tasks[1])
	h.Input.SetValue("Other edited")

	h.Update(taskUpdatedMsg{id: "3", seq: seq, task: &api.Task{ID: "3", Title: "New"}})

	if h.Tasks[0].Title != "New" {
		t.Errorf("expected task 3 updated, got %q", h.Tasks[0].Title)
	}
	if !h.Mode.IsEditingTask("4") {
		t.Error("expected to still be editing task 4")
	}
	if h.Input.Value() != "Other edited" {
		t.Errorf("buffer of the newer edit was cleared: %q", h.Input.Value())
	}
}

func TestCancelEditing(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.StartEditing(api.Task{ID: "3", Title: "Old"})

	h.CancelEditing()

	if h.Mode.IsEditing() {
		t.Error("expected idle mode")
	}
	if _, ok := h.Mode.EditingTask(); ok {
		t.Error("expected no editing task")
	}
	if h.Input.Value() != "" {
		t.Errorf("expected empty input, got %q", h.Input.Value())
	}
}

func TestDeleteTask_PreservesOrder(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{
		{ID: "1", Title: "a"}, {ID: "5", Title: "b"}, {ID: "2", Title: "c"}, {ID: "9", Title: "d"},
	}}
	h, _ := newTestHandler(t, srv)
	run(h, h.LoadTasks())

	run(h, h.DeleteTask("5"))

	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:a,2:c,9:d" {
		t.Errorf("unexpected tasks %s", got)
	}
	if atomic.LoadInt32(&srv.deletes) != 1 {
		t.Errorf("expected one DELETE, got %d", srv.deletes)
	}
}

func TestDeleteTask_FailureKeepsEntry(t *testing.T) {
	srv := &fakeServer{tasks: []api.Task{{ID: "5", Title: "b"}}}
	h, logs := newTestHandler(t, srv)
	run(h, h.LoadTasks())

	srv.fail = true
	run(h, h.DeleteTask("5"))

	if len(h.Tasks) != 1 {
		t.Errorf("expected entry retained, got %v", h.Tasks)
	}
	if !strings.Contains(logs.String(), "Failed to delete task") {
		t.Errorf("expected failure log, got %q", logs.String())
	}
}

func TestDeleteTask_LeavesEditModeForDeletedTask(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "5", Title: "b"}}
	h.StartEditing(h.Tasks[0])

	h.Update(taskDeletedMsg{id: "5"})

	if h.Mode.IsEditing() {
		t.Error("expected edit mode to end with the task")
	}
}

func TestToggleSort_DisplayOnly(t *testing.T) {
	h, _ := newTestHandler(t, &fakeServer{})
	h.Tasks = []api.Task{{ID: "1", Title: "banana"}, {ID: "2", Title: "Apple"}, {ID: "3", Title: "cherry"}}
	h.SortAlphabetically = false

	before := taskTitles(h.Visible())

	h.ToggleSort()
	if got := strings.Join(taskTitles(h.Visible()), ","); got != "2:Apple,1:banana,3:cherry" {
		t.Errorf("unexpected sorted view %s", got)
	}
	if got := strings.Join(taskTitles(h.Tasks), ","); got != "1:banana,2:Apple,3:cherry" {
		t.Errorf("toggle sort reordered the task list: %s", got)
	}

	h.ToggleSort()
	if got := taskTitles(h.Visible()); strings.Join(got, ",") != strings.Join(before, ",") {
		t.Errorf("toggling twice changed order: %v -> %v", before, got)
	}
}

func TestFailureNotification(t *testing.T) {
	var sent []string
	orig := notify
	notify = func(title, message string) error {
		sent = append(sent, message)
		return nil
	}
	t.Cleanup(func() { notify = orig })

	srv := &fakeServer{fail: true}
	h, _ := newTestHandler(t, srv)

	if cmd := h.Update(h.DeleteTask("1")()); cmd != nil {
		t.Fatal("expected no notification when disabled")
	}

	h.Config.Notifications.OnFailure = true
	follow := run(h, h.DeleteTask("1"))
	if follow == nil {
		t.Fatal("expected a notification command")
	}
	follow()
	if len(sent) != 1 || sent[0] != "Failed to delete task" {
		t.Errorf("unexpected notifications %v", sent)
	}
}

func TestFailureLogIsLocalized(t *testing.T) {
	srv := &fakeServer{fail: true}
	server := httptest.NewServer(srv)
	defer server.Close()

	var logs bytes.Buffer
	s := state.New(api.NewClient(server.URL), config.DefaultConfig(), logging.NewWriter(&logs, charmLog.DebugLevel), locale.New("ru"))
	h := NewHandler(context.Background(), s)

	run(h, h.LoadTasks())

	if !strings.Contains(logs.String(), "Ошибка загрузки задач") {
		t.Errorf("expected Russian failure message, got %q", logs.String())
	}
}
