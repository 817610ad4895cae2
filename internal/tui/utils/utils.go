// Package utils provides shared utility functions for the TUI.
package utils

import (
	"sort"

	"github.com/mattn/go-runewidth"

	"github.com/hy4ri/taskboard/internal/api"
)

// TruncateString truncates plain text to a display width, adding an ellipsis
// if truncated. Wide runes (CJK, emoji) count as two cells.
func TruncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width, "…")
}

// PadRight truncates or pads plain text to exactly width cells.
func PadRight(s string, width int) string {
	return runewidth.FillRight(TruncateString(s, width), width)
}

// ExtractLabels returns the unique labels used by tasks, sorted by name.
func ExtractLabels(tasks []api.Task) []string {
	seen := make(map[string]bool)
	var labels []string

	for _, t := range tasks {
		for _, name := range t.Labels {
			if !seen[name] {
				seen[name] = true
				labels = append(labels, name)
			}
		}
	}

	sort.Strings(labels)
	return labels
}
