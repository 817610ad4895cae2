// Package ui renders the TUI's building blocks: task lines, lists, the month
// grid, kanban columns and the surrounding chrome.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

// TaskLineOptions controls how one task row is drawn.
type TaskLineOptions struct {
	Width    int
	Now      time.Time
	Selected bool
	Pending  bool
	// ShowStatus adds a status badge; the board omits it since the column
	// already says it.
	ShowStatus bool
}

var priorityMarks = map[api.Priority]string{
	api.PriorityUrgent: "!!!",
	api.PriorityHigh:   "!! ",
	api.PriorityMedium: "!  ",
	api.PriorityLow:    "   ",
}

// DueLabel returns a short relative label for the task's due date and the
// style to draw it with. The label is empty when the task has no due date.
func DueLabel(t *api.Task, now time.Time) (string, lipgloss.Style) {
	due, ok := t.Due(now.Location())
	if !ok {
		return "", styles.TaskDue
	}

	var label string
	switch diff := projection.DayDiff(now, due); {
	case diff == 0:
		label = "today"
	case diff == 1:
		label = "tomorrow"
	case diff == -1:
		label = "yesterday"
	case diff < 0:
		label = fmt.Sprintf("%dd ago", -diff)
	case diff < projection.UpcomingDays:
		label = due.Format("Mon")
	default:
		label = due.Format("Jan 2")
	}
	if t.DueDate != nil && len(strings.TrimSpace(*t.DueDate)) > len(projection.DateKeyLayout) {
		label += " " + due.Format("15:04")
	}

	switch {
	case projection.IsOverdue(t, now):
		return label, styles.TaskDueOverdue
	case projection.SameDay(due, now):
		return label, styles.TaskDueToday
	default:
		return label, styles.TaskDue
	}
}

// TaskLine renders one task row.
func TaskLine(t *api.Task, o TaskLineOptions) string {
	cursor := "  "
	if o.Selected {
		cursor = "> "
	}

	mark, ok := priorityMarks[t.Priority]
	if !ok {
		mark = "   "
	}

	dueStr, dueStyle := DueLabel(t, o.Now)

	status := ""
	if o.ShowStatus {
		status = "[" + t.Status.Label() + "]"
	}

	meta := ""
	if name := t.AssigneeNames(); name != "" {
		meta = "@" + name
	}

	// cursor + mark + spaces between parts
	overhead := len(cursor) + len(mark) + 1
	for _, part := range []string{status, dueStr, meta} {
		if part != "" {
			overhead += lipgloss.Width(part) + 1
		}
	}
	titleWidth := o.Width - overhead
	if titleWidth < 8 {
		titleWidth = 8
		meta = ""
	}
	title := utils.TruncateString(t.Title, titleWidth)

	parts := []string{
		cursor + styles.PriorityStyle(t.Priority).Render(mark),
		styles.PriorityStyle(t.Priority).Render(title),
	}
	if status != "" {
		parts = append(parts, styles.StatusStyle(t.Status).Render(status))
	}
	if dueStr != "" {
		parts = append(parts, dueStyle.Render(dueStr))
	}
	if meta != "" {
		parts = append(parts, styles.TaskMeta.Render(meta))
	}
	line := strings.Join(parts, " ")

	switch {
	case o.Pending:
		return styles.TaskPending.Render(line + " …")
	case o.Selected:
		return styles.TaskSelected.Render(line)
	case t.Status.IsClosed():
		return styles.TaskClosed.Render(line)
	default:
		return styles.TaskItem.Render(line)
	}
}

// Window returns the [start, end) slice of total rows to draw so that cursor
// stays visible in height rows.
func Window(cursor, total, height int) (int, int) {
	if height <= 0 || total <= 0 {
		return 0, 0
	}
	if total <= height {
		return 0, total
	}
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := start + height
	if end > total {
		end = total
		start = end - height
	}
	return start, end
}

// Row is one line of a scrollable list. Task is nil for headers.
type Row struct {
	Text string
	Task *api.Task
}

// ScrollRows draws rows, keeping the row at focus visible and marking hidden
// content above and below.
func ScrollRows(rows []Row, focus, height int) string {
	if len(rows) == 0 || height <= 0 {
		return ""
	}

	bodyHeight := height
	if len(rows) > height {
		bodyHeight = height - 2
		if bodyHeight < 1 {
			bodyHeight = 1
		}
	}
	start, end := Window(focus, len(rows), bodyHeight)

	var b strings.Builder
	if len(rows) > height {
		if start > 0 {
			b.WriteString(styles.ScrollIndicatorUp.Render(fmt.Sprintf("▲ %d more", start)))
		}
		b.WriteString("\n")
	}
	for i := start; i < end; i++ {
		b.WriteString(rows[i].Text)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if len(rows) > height {
		b.WriteString("\n")
		if end < len(rows) {
			b.WriteString(styles.ScrollIndicatorDown.Render(fmt.Sprintf("▼ %d more", len(rows)-end)))
		}
	}
	return b.String()
}

// Empty renders a placeholder for an empty list.
func Empty(msg string) string {
	return styles.Faint.Render("  " + msg)
}
