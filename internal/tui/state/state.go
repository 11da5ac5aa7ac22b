package state

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/config"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/logging"
	"github.com/hy4ri/tasklist-tui/internal/tui/components"
	"github.com/hy4ri/tasklist-tui/internal/tui/styles"
)

// Focus is the part of the screen receiving key presses.
type Focus int

const (
	FocusInput Focus = iota
	FocusSearch
	FocusList
)

// focusCount is used to cycle focus with tab.
const focusCount = 3

// Next returns the focus after f in tab order.
func (f Focus) Next() Focus {
	return (f + 1) % focusCount
}

// Keymap defines keybindings.
type Keymap interface {
	HelpItems() [][]string
}

// State holds the task list controller state.
// All fields are exported to allow access from logic and ui packages.
type State struct {
	// Dependencies
	Client *api.Client
	Config *config.Config
	Logger *logging.Logger
	Locale *locale.Locale

	// Data
	Tasks []api.Task

	// Input buffer, shared between new task titles and edited titles.
	Input textinput.Model
	// Search phrase for the derived view.
	Search textinput.Model

	SortAlphabetically bool
	Loading            bool
	Mode               Mode

	// UI state
	Focus     Focus
	Cursor    int
	ShowHelp  bool
	StatusMsg string
	Width     int
	Height    int

	// Components
	Spinner  spinner.Model
	Keymap   Keymap
	KeyState *KeyState
	HelpComp *components.HelpModel

	Requests *Requests
}

// New builds the initial state. The input field starts focused.
func New(client *api.Client, cfg *config.Config, logger *logging.Logger, loc *locale.Locale) *State {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if loc == nil {
		loc = locale.New(cfg.UI.Language)
	}

	input := textinput.New()
	input.Placeholder = loc.T(locale.PlaceholderTask)
	input.Width = 50
	input.Focus()

	search := textinput.New()
	search.Placeholder = loc.T(locale.PlaceholderSearch)
	search.Prompt = "/ "
	search.CharLimit = 200
	search.Width = 30

	keymap := DefaultKeymap()
	help := components.NewHelp()
	help.SetKeymap(keymap.HelpItems())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &State{
		Client:             client,
		Config:             cfg,
		Logger:             logger,
		Locale:             loc,
		Tasks:              []api.Task{},
		Input:              input,
		Search:             search,
		SortAlphabetically: cfg.UI.SortAlphabetically,
		Mode:               Idle(),
		Focus:              FocusInput,
		Spinner:            sp,
		Keymap:             keymap,
		KeyState:           &KeyState{},
		HelpComp:           help,
		Requests:           NewRequests(),
	}
}

// SetFocus moves keyboard focus, keeping the text inputs' cursors in sync.
func (s *State) SetFocus(f Focus) {
	s.Focus = f
	s.Input.Blur()
	s.Search.Blur()
	switch f {
	case FocusInput:
		s.Input.Focus()
	case FocusSearch:
		s.Search.Focus()
	}
	s.KeyState.Reset()
}

// IndexOf returns the position of the task with id in Tasks, or -1.
func (s *State) IndexOf(id api.TaskID) int {
	for i := range s.Tasks {
		if s.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}
