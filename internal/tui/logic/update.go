package logic

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/tasklist-tui/internal/tui/components"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
)

// Handler applies messages to the controller state. It runs on the
// bubbletea update goroutine; remote calls run inside the commands it returns.
type Handler struct {
	*state.State
	ctx context.Context
}

// NewHandler creates a handler whose remote calls are bound to ctx.
func NewHandler(ctx context.Context, s *state.State) *Handler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Handler{
		State: s,
		ctx:   ctx,
	}
}

// Update applies msg and returns the follow-up command.
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return h.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		return h.handleWindowSizeMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		h.Spinner, cmd = h.Spinner.Update(msg)
		return cmd

	case tasksLoadedMsg:
		return h.handleTasksLoaded(msg)

	case taskCreatedMsg:
		return h.handleTaskCreated(msg)

	case taskUpdatedMsg:
		return h.handleTaskUpdated(msg)

	case taskDeletedMsg:
		return h.handleTaskDeleted(msg)

	case statusMsg:
		h.StatusMsg = msg.msg
		return nil

	case copyFailedMsg:
		h.Logger.Warn("failed to copy to clipboard", "err", msg.err)
		return nil

	case components.CloseHelpMsg:
		h.ShowHelp = false
		return nil
	}

	// Forward non-key messages (like blink) to the focused input
	switch h.Focus {
	case state.FocusInput:
		var cmd tea.Cmd
		h.Input, cmd = h.Input.Update(msg)
		return cmd
	case state.FocusSearch:
		var cmd tea.Cmd
		h.Search, cmd = h.Search.Update(msg)
		return cmd
	}

	return nil
}

func (h *Handler) handleWindowSizeMsg(msg tea.WindowSizeMsg) tea.Cmd {
	h.Width = msg.Width
	h.Height = msg.Height

	inputWidth := msg.Width - 40
	if inputWidth < 20 {
		inputWidth = 20
	}
	h.Input.Width = inputWidth
	h.Search.Width = inputWidth

	h.HelpComp.SetSize(msg.Width, msg.Height)
	return nil
}
