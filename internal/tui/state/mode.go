package state

import "github.com/hy4ri/tasklist-tui/internal/api"

// ModeKind enumerates the controller modes.
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeEditing
)

// Mode is either Idle or Editing a specific task. The task is only reachable
// through Editing, so an editing mode without a task cannot be built.
type Mode struct {
	kind ModeKind
	task api.Task
}

// Idle returns the mode in which the input buffer holds a new task title.
func Idle() Mode {
	return Mode{kind: ModeIdle}
}

// Editing returns the mode in which the input buffer modifies t.
func Editing(t api.Task) Mode {
	return Mode{kind: ModeEditing, task: t}
}

// Kind reports the mode.
func (m Mode) Kind() ModeKind {
	return m.kind
}

// IsEditing reports whether a task is being edited.
func (m Mode) IsEditing() bool {
	return m.kind == ModeEditing
}

// EditingTask returns the task being edited.
func (m Mode) EditingTask() (api.Task, bool) {
	if m.kind != ModeEditing {
		return api.Task{}, false
	}
	return m.task, true
}

// IsEditingTask reports whether the task with id is the one being edited.
func (m Mode) IsEditingTask(id api.TaskID) bool {
	return m.kind == ModeEditing && m.task.ID == id
}
