package logic

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
	"github.com/hy4ri/tasklist-tui/internal/tui/utils"
)

// writeClipboard is swapped out in tests.
var writeClipboard = clipboard.WriteAll

// Visible returns the filtered, optionally sorted view of Tasks.
func (h *Handler) Visible() []api.Task {
	return utils.VisibleTasks(h.Tasks, h.Search.Value(), h.SortAlphabetically, h.Locale.Compare)
}

// SelectedTask returns the task under the cursor in the visible list.
func (h *Handler) SelectedTask() (api.Task, bool) {
	visible := h.Visible()
	if h.Cursor < 0 || h.Cursor >= len(visible) {
		return api.Task{}, false
	}
	return visible[h.Cursor], true
}

// clampCursor keeps the cursor inside the visible list.
func (h *Handler) clampCursor() {
	n := len(h.Visible())
	if h.Cursor >= n {
		h.Cursor = n - 1
	}
	if h.Cursor < 0 {
		h.Cursor = 0
	}
}

// LoadTasks fetches the whole collection. Only the latest issued load is
// applied when it completes.
func (h *Handler) LoadTasks() tea.Cmd {
	h.Loading = true
	ticket := h.Requests.IssueLoad()
	client, ctx := h.Client, h.ctx

	return func() tea.Msg {
		tasks, err := client.GetTasks(ctx)
		return tasksLoadedMsg{ticket: ticket, tasks: tasks, err: err}
	}
}

func (h *Handler) handleTasksLoaded(msg tasksLoadedMsg) tea.Cmd {
	if !h.Requests.IsLatestLoad(msg.ticket) {
		h.Logger.Debug("dropping superseded load", "seq", msg.ticket.Seq)
		return nil
	}

	if msg.err != nil {
		h.Loading = false
		return h.reportFailure("load", locale.MsgLoadFailed, msg.err)
	}

	if h.Requests.IsStale(msg.ticket) {
		h.Logger.Debug("load overtaken by a local change, reloading", "seq", msg.ticket.Seq)
		return h.LoadTasks()
	}

	h.Loading = false
	h.Tasks = msg.tasks
	h.clampCursor()
	h.Logger.Debug("tasks loaded", "count", len(msg.tasks))
	return nil
}

// CreateTask posts the input buffer as a new task title.
func (h *Handler) CreateTask() tea.Cmd {
	title := h.Input.Value()
	client, ctx := h.Client, h.ctx

	return func() tea.Msg {
		task, err := client.CreateTask(ctx, api.CreateTaskRequest{Title: title})
		return taskCreatedMsg{title: title, task: task, err: err}
	}
}

func (h *Handler) handleTaskCreated(msg taskCreatedMsg) tea.Cmd {
	if msg.err != nil {
		return h.reportFailure("create", locale.MsgCreateFailed, msg.err)
	}

	if i := h.IndexOf(msg.task.ID); i >= 0 {
		// A reload already brought it in.
		h.Tasks[i] = *msg.task
	} else {
		h.Tasks = append(h.Tasks, *msg.task)
	}
	h.Requests.MutationApplied()

	if !h.Mode.IsEditing() && h.Input.Value() == msg.title {
		h.Input.Reset()
	}
	h.StatusMsg = h.Locale.T(locale.StatusTaskAdded)
	h.Logger.Info("task created", "id", msg.task.ID)
	return nil
}

// StartEditing switches to edit mode for t and loads its title into the
// input buffer.
func (h *Handler) StartEditing(t api.Task) {
	h.Mode = state.Editing(t)
	h.Input.SetValue(t.Title)
	h.Input.CursorEnd()
	h.SetFocus(state.FocusInput)
}

// CancelEditing leaves edit mode and clears the input buffer.
func (h *Handler) CancelEditing() {
	h.Mode = state.Idle()
	h.Input.Reset()
}

// SaveTask sends the input buffer as the new title of the task being edited.
func (h *Handler) SaveTask() tea.Cmd {
	task, ok := h.Mode.EditingTask()
	if !ok {
		return nil
	}

	title := h.Input.Value()
	seq := h.Requests.IssueSave(task.ID)
	client, ctx := h.Client, h.ctx

	return func() tea.Msg {
		updated, err := client.UpdateTask(ctx, task.ID, api.UpdateTaskRequest{Title: title})
		return taskUpdatedMsg{id: task.ID, seq: seq, task: updated, err: err}
	}
}

func (h *Handler) handleTaskUpdated(msg taskUpdatedMsg) tea.Cmd {
	if msg.err != nil {
		return h.reportFailure("update", locale.MsgUpdateFailed, msg.err)
	}
	if !h.Requests.ApplySave(msg.id, msg.seq) {
		h.Logger.Debug("dropping superseded update", "id", msg.id, "seq", msg.seq)
		return nil
	}

	for i := range h.Tasks {
		if h.Tasks[i].ID == msg.id {
			h.Tasks[i] = *msg.task
		}
	}
	h.Requests.MutationApplied()

	// A newer save for this task is still in flight; keep editing until it lands.
	if h.Requests.IsLatestSave(msg.id, msg.seq) && h.Mode.IsEditingTask(msg.id) {
		h.CancelEditing()
		h.SetFocus(state.FocusList)
	}
	h.clampCursor()
	h.StatusMsg = h.Locale.T(locale.StatusTaskUpdated)
	h.Logger.Info("task updated", "id", msg.id)
	return nil
}

// DeleteTask removes the task with id on the server.
func (h *Handler) DeleteTask(id api.TaskID) tea.Cmd {
	client, ctx := h.Client, h.ctx

	return func() tea.Msg {
		err := client.DeleteTask(ctx, id)
		return taskDeletedMsg{id: id, err: err}
	}
}

func (h *Handler) handleTaskDeleted(msg taskDeletedMsg) tea.Cmd {
	if msg.err != nil {
		return h.reportFailure("delete", locale.MsgDeleteFailed, msg.err)
	}

	kept := make([]api.Task, 0, len(h.Tasks))
	for _, t := range h.Tasks {
		if t.ID != msg.id {
			kept = append(kept, t)
		}
	}
	h.Tasks = kept
	h.Requests.MutationApplied()
	h.Requests.Forget(msg.id)

	if h.Mode.IsEditingTask(msg.id) {
		h.CancelEditing()
	}
	h.clampCursor()
	h.StatusMsg = h.Locale.T(locale.StatusTaskDeleted)
	h.Logger.Info("task deleted", "id", msg.id)
	return nil
}

// ToggleSort flips alphabetical ordering of the visible list.
func (h *Handler) ToggleSort() {
	h.SortAlphabetically = !h.SortAlphabetically
	h.clampCursor()
}

// copySelected copies the selected task's title to the clipboard.
func (h *Handler) copySelected() tea.Cmd {
	task, ok := h.SelectedTask()
	if !ok {
		return nil
	}
	done := h.Locale.T(locale.StatusCopied)
	return func() tea.Msg {
		if err := writeClipboard(task.Title); err != nil {
			return copyFailedMsg{err: err}
		}
		return statusMsg{msg: done}
	}
}
