package logic

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
)

// Init implements tea.Model.
func (h *Handler) Init() tea.Cmd {
	return tea.Batch(
		h.Spinner.Tick,
		h.LoadTasks(),
	)
}

// Message types
type tasksLoadedMsg struct {
	ticket state.LoadTicket
	tasks  []api.Task
	err    error
}

type taskCreatedMsg struct {
	title string
	task  *api.Task
	err   error
}

type taskUpdatedMsg struct {
	id   api.TaskID
	seq  uint64
	task *api.Task
	err  error
}

type taskDeletedMsg struct {
	id  api.TaskID
	err error
}

type statusMsg struct{ msg string }

type copyFailedMsg struct{ err error }
