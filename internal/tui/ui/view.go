package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/hy4ri/tasklist-tui/internal/locale"
	"github.com/hy4ri/tasklist-tui/internal/tui/state"
	"github.com/hy4ri/tasklist-tui/internal/tui/styles"
	"github.com/hy4ri/tasklist-tui/internal/tui/utils"
)

type Renderer struct {
	*state.State

	// First visible row of the task list.
	scrollOffset int
}

func NewRenderer(s *state.State) *Renderer {
	return &Renderer{State: s}
}

func (r *Renderer) View() string {
	if r.Width == 0 {
		return r.Locale.T(locale.LabelLoading)
	}

	if r.ShowHelp {
		return r.HelpComp.View()
	}

	header := r.renderHeader()
	form := r.renderForm()
	toolbar := r.renderToolbar()
	statusBar := r.renderStatusBar()

	listHeight := r.Height -
		lipgloss.Height(header) -
		lipgloss.Height(form) -
		lipgloss.Height(toolbar) -
		lipgloss.Height(statusBar) - 1
	if listHeight < 3 {
		listHeight = 3
	}

	list := r.renderTaskList(r.Width-4, listHeight)
	list = lipgloss.Place(r.Width, listHeight, lipgloss.Left, lipgloss.Top, list)

	return lipgloss.JoinVertical(lipgloss.Left, header, form, toolbar, list, statusBar)
}

func (r *Renderer) renderHeader() string {
	title := styles.Title.Render(r.Locale.T(locale.LabelTitle))
	if r.Loading {
		title += " " + r.Spinner.View()
	}
	return title
}

// renderForm renders the shared title input with its submit button. While
// editing, the button reads "Save" and a cancel hint follows.
func (r *Renderer) renderForm() string {
	inputStyle := styles.Input
	if r.Focus == state.FocusInput {
		inputStyle = styles.InputFocused
	}
	field := inputStyle.Render(r.Input.View())

	label := r.Locale.T(locale.LabelAdd)
	if r.Mode.IsEditing() {
		label = r.Locale.T(locale.LabelSave)
	}
	parts := []string{field, " ", styles.Button.Render("enter " + label)}
	if r.Mode.IsEditing() {
		parts = append(parts, " ", styles.ButtonSecondary.Render("esc "+r.Locale.T(locale.LabelCancel)))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// renderToolbar renders the search field and the sort toggle.
func (r *Renderer) renderToolbar() string {
	searchStyle := styles.Input
	if r.Focus == state.FocusSearch {
		searchStyle = styles.InputFocused
	}
	search := searchStyle.Render(r.Search.View())

	sortLabel := r.Locale.T(locale.LabelSort)
	if r.SortAlphabetically {
		sortLabel = r.Locale.T(locale.LabelResetSort)
	}
	sortButton := styles.ButtonSecondary.Render("s " + sortLabel)

	return lipgloss.JoinHorizontal(lipgloss.Center, search, " ", sortButton)
}

func (r *Renderer) visible() []api.Task {
	return utils.VisibleTasks(r.Tasks, r.Search.Value(), r.SortAlphabetically, r.Locale.Compare)
}

// renderTaskList renders the visible tasks, scrolled to keep the cursor on screen.
func (r *Renderer) renderTaskList(width, maxHeight int) string {
	tasks := r.visible()

	if len(tasks) == 0 {
		r.scrollOffset = 0
		switch {
		case r.Loading:
			return r.Spinner.View() + " " + styles.Placeholder.Render(r.Locale.T(locale.LabelLoading))
		case len(r.Tasks) > 0:
			return styles.Placeholder.Render(r.Locale.T(locale.LabelNoMatches))
		default:
			return styles.Placeholder.Render(r.Locale.T(locale.LabelEmpty))
		}
	}

	if r.Cursor < r.scrollOffset {
		r.scrollOffset = r.Cursor
	}
	if r.Cursor >= r.scrollOffset+maxHeight {
		r.scrollOffset = r.Cursor - maxHeight + 1
	}
	if r.scrollOffset > len(tasks)-1 {
		r.scrollOffset = 0
	}

	end := r.scrollOffset + maxHeight
	if end > len(tasks) {
		end = len(tasks)
	}

	lines := make([]string, 0, end-r.scrollOffset)
	for i := r.scrollOffset; i < end; i++ {
		lines = append(lines, r.renderTask(tasks[i], i, width))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderTask(t api.Task, index, width int) string {
	isCursor := index == r.Cursor && r.Focus == state.FocusList

	cursor := "  "
	if isCursor {
		cursor = "> "
	}

	title := utils.TruncateString(t.Title, width-lipgloss.Width(cursor))
	line := cursor + title

	switch {
	case r.Mode.IsEditingTask(t.ID):
		return styles.TaskEditing.Render(line)
	case isCursor:
		return styles.TaskSelected.Render(line)
	default:
		return styles.TaskItem.Render(line)
	}
}

// renderStatusBar renders the last status message on the left and key hints
// for the focused area on the right.
func (r *Renderer) renderStatusBar() string {
	left := ""
	if r.StatusMsg != "" {
		left = styles.StatusBarSuccess.Render(strings.ReplaceAll(r.StatusMsg, "\n", " "))
	}

	right := strings.Join(r.hints(), " ")

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	padding := styles.StatusBar.GetHorizontalFrameSize()

	maxLeftWidth := r.Width - rightWidth - padding - 4
	if leftWidth > maxLeftWidth && maxLeftWidth > 10 {
		left = styles.StatusBarSuccess.Render(utils.TruncateString(r.StatusMsg, maxLeftWidth))
		leftWidth = lipgloss.Width(left)
	}

	spacing := r.Width - leftWidth - rightWidth - padding
	if spacing < 0 {
		spacing = 0
	}

	return styles.StatusBar.Width(r.Width).Render(left + strings.Repeat(" ", spacing) + right)
}

func (r *Renderer) hints() []string {
	hint := func(key string, label locale.Key) string {
		return styles.StatusBarKey.Render(key) + styles.StatusBarText.Render(":"+strings.ToLower(r.Locale.T(label)))
	}

	switch r.Focus {
	case state.FocusList:
		return []string{
			hint("e", locale.LabelEdit),
			hint("dd", locale.LabelDelete),
			hint("yy", locale.LabelCopy),
			hint("r", locale.LabelReload),
			hint("?", locale.LabelHelp),
			hint("q", locale.LabelQuit),
		}
	case state.FocusSearch:
		return []string{
			hint("enter", locale.LabelSearch),
			hint("esc", locale.LabelCancel),
		}
	default:
		if r.Mode.IsEditing() {
			return []string{
				hint("enter", locale.LabelSave),
				hint("esc", locale.LabelCancel),
			}
		}
		return []string{
			hint("enter", locale.LabelAdd),
			hint("tab", locale.LabelSearch),
		}
	}
}
