package logic

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/locale"
)

const notificationTitle = "tasklist"

// notify is swapped out in tests.
var notify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// reportFailure logs a failed remote operation. State is left untouched;
// the caller has already decided what, if anything, to reset.
// With notifications.on_failure set, a desktop notification follows.
func (h *Handler) reportFailure(op string, key locale.Key, err error) tea.Cmd {
	text := h.Locale.T(key)
	fields := []interface{}{"op", op, "err", err}
	if id := api.RequestID(err); id != "" {
		fields = append(fields, "request_id", id)
	}
	if apiErr, ok := api.IsAPIError(err); ok {
		fields = append(fields, "status", apiErr.StatusCode)
	}
	h.Logger.Error(text, fields...)

	if h.Config == nil || !h.Config.Notifications.OnFailure {
		return nil
	}

	logger := h.Logger
	return func() tea.Msg {
		if err := notify(notificationTitle, text); err != nil {
			logger.Warn("failed to send notification", "err", err)
		}
		return nil
	}
}
