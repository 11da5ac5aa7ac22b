// Package utils provides shared utility functions for the TUI and CLI.
package utils

import (
	"sort"
	"strings"

	"github.com/hy4ri/tasklist-tui/internal/api"
	"github.com/mattn/go-runewidth"
)

// CompareFunc orders two titles, returning <0, 0 or >0.
type CompareFunc func(a, b string) int

// TruncateString truncates a string to a given display width and adds an
// ellipsis if truncated. Wide runes count as two cells.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// FilterTasks returns the tasks whose lowercased title contains the
// lowercased phrase. An empty phrase returns every task.
func FilterTasks(tasks []api.Task, phrase string) []api.Task {
	needle := strings.ToLower(phrase)
	filtered := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), needle) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// SortTasks returns a copy of tasks stably sorted by title with compare.
func SortTasks(tasks []api.Task, compare CompareFunc) []api.Task {
	sorted := make([]api.Task, len(tasks))
	copy(sorted, tasks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compare(sorted[i].Title, sorted[j].Title) < 0
	})
	return sorted
}

// VisibleTasks derives the displayed list: filter by phrase, then sort by
// title when sortAlpha is set. The input slice is never reordered.
func VisibleTasks(tasks []api.Task, phrase string, sortAlpha bool, compare CompareFunc) []api.Task {
	visible := FilterTasks(tasks, phrase)
	if sortAlpha {
		if compare == nil {
			compare = strings.Compare
		}
		visible = SortTasks(visible, compare)
	}
	return visible
}
