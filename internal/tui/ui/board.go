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

// BoardColumn is one rendered kanban column.
type BoardColumn struct {
	Config projection.ColumnConfig
	Tasks  []api.Task
	Stats  projection.ColumnStats
}

// BoardData is everything the board view needs.
type BoardData struct {
	Columns  []BoardColumn
	Focused  int
	Row      int
	Now      time.Time
	Pending  func(id string) bool
	SortMode projection.SortMode
}

// ColumnHeader returns the title line, e.g. "In Progress 4/5".
func ColumnHeader(c BoardColumn) string {
	if c.Config.WIPLimit > 0 {
		return fmt.Sprintf("%s %d/%d", c.Config.Title, c.Stats.Count, c.Config.WIPLimit)
	}
	return fmt.Sprintf("%s %d", c.Config.Title, c.Stats.Count)
}

// Board renders the columns side by side.
func Board(d BoardData, width, height int) string {
	if len(d.Columns) == 0 {
		return Empty("No columns configured")
	}

	// Each column has a border (2) and padding (2).
	colWidth := width/len(d.Columns) - 4
	if colWidth < 12 {
		colWidth = 12
	}
	// Border (2) + title + stats.
	bodyHeight := height - 5
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	rendered := make([]string, 0, len(d.Columns))
	for i, col := range d.Columns {
		focused := i == d.Focused
		rendered = append(rendered, renderColumn(col, d, focused, colWidth, bodyHeight))
	}

	header := styles.Faint.Render("sort: " + string(d.SortMode))
	return header + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(col BoardColumn, d BoardData, focused bool, width, height int) string {
	var b strings.Builder

	b.WriteString(styles.ColumnTitle.Render(utils.TruncateString(ColumnHeader(col), width)))
	b.WriteString("\n")

	stats := fmt.Sprintf("avg %.1fd", col.Stats.AvgAgeDays)
	if col.Stats.IsBottleneck {
		b.WriteString(styles.ColumnStats.Render(stats) + " " + styles.BottleneckBadge.Render("⚠ bottleneck"))
	} else {
		b.WriteString(styles.ColumnStats.Render(stats))
	}
	b.WriteString("\n")

	rows := make([]Row, 0, len(col.Tasks))
	for i := range col.Tasks {
		t := &col.Tasks[i]
		pending := d.Pending != nil && d.Pending(t.ID)
		rows = append(rows, Row{
			Text: TaskLine(t, TaskLineOptions{
				Width:    width,
				Now:      d.Now,
				Selected: focused && i == d.Row,
				Pending:  pending,
			}),
			Task: t,
		})
	}
	if len(rows) == 0 {
		b.WriteString(Empty("empty"))
	} else {
		focus := 0
		if focused {
			focus = d.Row
		}
		b.WriteString(ScrollRows(rows, focus, height))
	}

	style := styles.Column
	switch {
	case focused:
		style = styles.ColumnFocused
	case col.Stats.IsBottleneck:
		style = styles.ColumnBottleneck
	}
	return style.Width(width + 2).Render(b.String())
}
