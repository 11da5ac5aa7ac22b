package state

import tea "github.com/charmbracelet/bubbletea"

// Key represents a key binding.
type Key struct {
	Key  string
	Help string
}

// KeymapData contains all key bindings for the list pane.
type KeymapData struct {
	// Navigation
	Up         Key
	Down       Key
	Top        Key
	Bottom     Key
	SwitchPane Key

	// Actions
	Select  Key
	Back    Key
	Quit    Key
	Help    Key
	Refresh Key

	// Task actions
	AddTask    Key
	EditTask   Key
	DeleteTask Key
	CopyTask   Key
	ToggleSort Key

	// Search
	Search Key
}

// DefaultKeymap returns the default Vim-style key bindings.
func DefaultKeymap() KeymapData {
	return KeymapData{
		Up:         Key{Key: "k", Help: "up"},
		Down:       Key{Key: "j", Help: "down"},
		Top:        Key{Key: "g", Help: "top (gg)"},
		Bottom:     Key{Key: "G", Help: "bottom"},
		SwitchPane: Key{Key: "tab", Help: "next field"},

		Select:  Key{Key: "enter", Help: "edit"},
		Back:    Key{Key: "esc", Help: "cancel"},
		Quit:    Key{Key: "q", Help: "quit"},
		Help:    Key{Key: "?", Help: "help"},
		Refresh: Key{Key: "r", Help: "reload"},

		AddTask:    Key{Key: "a", Help: "new task"},
		EditTask:   Key{Key: "e", Help: "edit task"},
		DeleteTask: Key{Key: "d", Help: "delete (dd)"},
		CopyTask:   Key{Key: "y", Help: "copy title (yy)"},
		ToggleSort: Key{Key: "s", Help: "toggle sort"},

		Search: Key{Key: "/", Help: "search"},
	}
}

// KeyState tracks multi-key sequences (like 'gg' or 'dd' or 'yy').
type KeyState struct {
	WaitingG bool // Waiting for second 'g' in 'gg'
	WaitingD bool // Waiting for second 'd' in 'dd'
	WaitingY bool // Waiting for second 'y' in 'yy'
}

// HandleKey processes a key press and returns the action to take.
// Returns the action name and whether the key was consumed.
func (ks *KeyState) HandleKey(msg tea.KeyMsg, km interface{}) (string, bool) {
	keymap, ok := km.(KeymapData)
	if !ok {
		if msg.String() == "?" {
			return "help", true
		}
		return "", false
	}

	key := msg.String()

	// Handle 'gg' sequence (go to top)
	if ks.WaitingG {
		ks.WaitingG = false
		if key == keymap.Top.Key {
			return "top", true
		}
	}

	// Handle 'dd' sequence (delete)
	if ks.WaitingD {
		ks.WaitingD = false
		if key == keymap.DeleteTask.Key {
			return "delete", true
		}
	}

	// Handle 'yy' sequence (copy)
	if ks.WaitingY {
		ks.WaitingY = false
		if key == keymap.CopyTask.Key {
			return "copy", true
		}
	}

	// Check for multi-key sequence starts
	switch key {
	case keymap.Top.Key:
		ks.WaitingG = true
		return "", true
	case keymap.DeleteTask.Key:
		ks.WaitingD = true
		return "", true
	case keymap.CopyTask.Key:
		ks.WaitingY = true
		return "", true
	}

	// Single key mappings
	switch key {
	case keymap.Up.Key, "up":
		return "up", true
	case keymap.Down.Key, "down":
		return "down", true
	case keymap.Bottom.Key, "end":
		return "bottom", true
	case "home":
		return "top", true
	case keymap.Select.Key, keymap.EditTask.Key:
		return "edit", true
	case keymap.Back.Key:
		return "back", true
	case keymap.Quit.Key:
		return "quit", true
	case keymap.Help.Key:
		return "help", true
	case keymap.Refresh.Key:
		return "refresh", true
	case keymap.AddTask.Key, "i":
		return "add", true
	case keymap.ToggleSort.Key:
		return "sort", true
	case keymap.Search.Key:
		return "search", true
	case keymap.SwitchPane.Key:
		return "switch_pane", true
	}

	return "", false
}

// Reset clears any pending multi-key sequences.
func (ks *KeyState) Reset() {
	ks.WaitingG = false
	ks.WaitingD = false
	ks.WaitingY = false
}

// HelpItems returns a slice of key-description pairs for the help view.
func (k KeymapData) HelpItems() [][]string {
	return [][]string{
		{"Navigation", ""},
		{k.Up.Key + "/" + k.Down.Key, "Move up/down"},
		{"gg/" + k.Bottom.Key, "Go to top/bottom"},
		{k.SwitchPane.Key, "Next field (input, search, list)"},
		{k.Search.Key, "Search"},
		{"", ""},
		{"Task Actions", ""},
		{k.AddTask.Key + "/i", "Type a new task"},
		{k.Select.Key + "/" + k.EditTask.Key, "Edit task"},
		{"dd", "Delete task"},
		{"yy", "Copy title to clipboard"},
		{k.ToggleSort.Key, "Sort alphabetically / reset"},
		{"", ""},
		{"General", ""},
		{k.Refresh.Key, "Reload tasks"},
		{k.Back.Key, "Cancel editing / leave field"},
		{k.Help.Key, "Toggle help"},
		{k.Quit.Key + "/ctrl+c", "Quit"},
	}
}
