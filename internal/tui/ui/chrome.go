package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

// TabInfo is one entry of the tab bar.
type TabInfo struct {
	Tab   state.Tab
	Icon  string
	Name  string
	Badge int
}

// TabBar renders the tab strip. Tab names fall back to icons only when the
// terminal is too narrow.
func TabBar(tabs []TabInfo, current state.Tab, width int) string {
	render := func(short bool) string {
		parts := make([]string, 0, len(tabs))
		for _, t := range tabs {
			label := t.Icon + " " + t.Name
			if short {
				label = t.Icon
			}
			if t.Badge > 0 {
				label += " " + styles.TabBadge.Render(fmt.Sprintf("%d", t.Badge))
			}
			style := styles.Tab
			if t.Tab == current {
				style = styles.TabActive
			}
			parts = append(parts, style.Render(label))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	bar := render(false)
	if width > 0 && lipgloss.Width(bar) > width-2 {
		bar = render(true)
	}
	return styles.TabBar.Width(max(width-2, 0)).Render(bar)
}

// StatusInfo is what the status bar reports.
type StatusInfo struct {
	Loading   bool
	Spinner   string
	Err       error
	Message   string
	Stale     bool
	FetchedAt time.Time
	Now       time.Time
	Live      bool
	Count     int
}

// StatusBar renders the bottom bar: the current message or error on the
// left, data freshness on the right.
func StatusBar(info StatusInfo, width int) string {
	var left string
	switch {
	case info.Loading:
		left = styles.StatusBarText.Render(info.Spinner + " loading…")
	case info.Err != nil:
		left = styles.StatusBarError.Render(ErrorText(info.Err))
	case info.Message != "":
		left = styles.StatusBarSuccess.Render(info.Message)
	default:
		left = styles.StatusBarKey.Render("?") + styles.StatusBarText.Render(" help")
	}

	var right []string
	right = append(right, fmt.Sprintf("%d tasks", info.Count))
	if info.Stale && !info.FetchedAt.IsZero() {
		age := info.Now.Sub(info.FetchedAt).Round(time.Minute)
		right = append(right, styles.StatusBarStale.Render("offline · "+age.String()+" old"))
	}
	if info.Live {
		right = append(right, "● live")
	}
	rightStr := styles.StatusBarText.Render(strings.Join(right, " · "))

	gap := width - 2 - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if gap < 1 {
		gap = 1
	}
	return styles.StatusBar.Width(max(width, 0)).Render(left + strings.Repeat(" ", gap) + rightStr)
}

// ErrorText turns an error into a one-line status message, with friendlier
// wording for common API failures.
func ErrorText(err error) string {
	if apiErr, ok := api.IsAPIError(err); ok {
		switch {
		case apiErr.IsUnauthorized():
			return "Not authorized: run 'taskboard login' or set an API token"
		case apiErr.IsForbidden():
			return "Forbidden: " + apiErr.Message
		case apiErr.IsNotFound():
			return "Not found: " + apiErr.Message
		case apiErr.IsRateLimited():
			return "Rate limited, try again shortly"
		case apiErr.IsServerError():
			return "Server error: " + apiErr.Message
		}
	}
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return "Error: " + msg
}

// ConfirmDelete renders the delete confirmation dialog.
func ConfirmDelete(t *api.Task, width int) string {
	title := utils.TruncateString(t.Title, max(width-20, 10))
	body := styles.DialogTitle.Render("Delete task?") + "\n" +
		title + "\n\n" +
		styles.HelpKey.Render("y") + styles.HelpDesc.Render(" delete  ") +
		styles.HelpKey.Render("n") + styles.HelpDesc.Render(" cancel")
	return styles.Dialog.Render(body)
}

// InputBox frames a text input with a label.
func InputBox(label, input string, width int) string {
	return styles.InputFocused.Width(max(width-4, 10)).Render(styles.Subtitle.Render(label) + " " + input)
}
