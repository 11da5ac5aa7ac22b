package logic

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
)

func (h *Handler) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	if h.ShowHelp {
		var cmd tea.Cmd
		_, cmd = h.HelpComp.Update(msg)
		return cmd
	}

	switch h.Focus {
	case state.FocusInput:
		return h.handleInputKey(msg)
	case state.FocusSearch:
		return h.handleSearchKey(msg)
	default:
		return h.handleListKey(msg)
	}
}

// handleInputKey drives the title field: enter submits (add or save),
// esc cancels editing or leaves the field.
func (h *Handler) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if h.Mode.IsEditing() {
			return h.SaveTask()
		}
		return h.CreateTask()

	case tea.KeyEsc:
		if h.Mode.IsEditing() {
			h.CancelEditing()
			h.StatusMsg = h.Locale.T(locale.StatusEditCancelled)
			return nil
		}
		h.SetFocus(state.FocusList)
		return nil

	case tea.KeyTab:
		h.SetFocus(h.Focus.Next())
		return nil
	}

	var cmd tea.Cmd
	h.Input, cmd = h.Input.Update(msg)
	return cmd
}

// handleSearchKey drives the search field; the list is filtered as the
// phrase changes.
func (h *Handler) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		h.SetFocus(state.FocusList)
		return nil
	case tea.KeyTab:
		h.SetFocus(h.Focus.Next())
		return nil
	}

	var cmd tea.Cmd
	h.Search, cmd = h.Search.Update(msg)
	h.clampCursor()
	return cmd
}

func (h *Handler) handleListKey(msg tea.KeyMsg) tea.Cmd {
	action, ok := h.KeyState.HandleKey(msg, h.Keymap)
	if !ok || action == "" {
		return nil
	}

	switch action {
	case "up":
		if h.Cursor > 0 {
			h.Cursor--
		}
	case "down":
		if h.Cursor < len(h.Visible())-1 {
			h.Cursor++
		}
	case "top":
		h.Cursor = 0
	case "bottom":
		h.Cursor = len(h.Visible()) - 1
		h.clampCursor()

	case "edit":
		if task, ok := h.SelectedTask(); ok {
			h.StartEditing(task)
		}
	case "delete":
		if task, ok := h.SelectedTask(); ok {
			return h.DeleteTask(task.ID)
		}
	case "copy":
		return h.copySelected()
	case "sort":
		h.ToggleSort()
	case "refresh":
		return h.LoadTasks()

	case "add":
		h.SetFocus(state.FocusInput)
	case "search":
		h.SetFocus(state.FocusSearch)
	case "switch_pane":
		h.SetFocus(h.Focus.Next())
	case "back":
		if h.Mode.IsEditing() {
			h.CancelEditing()
			h.StatusMsg = h.Locale.T(locale.StatusEditCancelled)
		}

	case "help":
		h.ShowHelp = true
	case "quit":
		return tea.Quit
	}

	return nil
}
