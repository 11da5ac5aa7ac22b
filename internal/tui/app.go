// Package tui provides the terminal user interface for the task list.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/config"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/logging"
	"github.com/hy4ri/tasklist-tui/internal/tui/logic"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
	"github.com/hy4ri/tasklist-tui/internal/tui/ui"
)

// App is the main Bubble Tea model for the application.
// State is shared; the handler mutates it and the renderer reads it.
type App struct {
	state    *state.State
	handler  *logic.Handler
	renderer *ui.Renderer
}

// NewApp creates a new App instance. Remote calls are bound to ctx.
func NewApp(ctx context.Context, client *api.Client, cfg *config.Config, logger *logging.Logger, loc *locale.Locale) *App {
	s := state.New(client, cfg, logger, loc)
	return &App{
		state:    s,
		handler:  logic.NewHandler(ctx, s),
		renderer: ui.NewRenderer(s),
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.handler.Init()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return a, a.handler.Update(msg)
}

// View implements tea.Model.
func (a *App) View() string {
	return a.renderer.View()
}

// State exposes the controller state, mainly for tests.
func (a *App) State() *state.State {
	return a.state
}
