package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// CalendarData is everything the month view needs.
type CalendarData struct {
	Month      time.Time
	Selected   time.Time
	Now        time.Time
	ByDay      map[string][]api.Task
	Aggregates map[string]projection.CalendarDayAggregate
}

func cellStyleFor(c projection.Cell, d CalendarData) (style func(...string) string, marker string) {
	key := projection.DateKey(c.Date)
	agg, hasTasks := d.Aggregates[key]

	switch {
	case projection.SameDay(c.Date, d.Selected):
		style = styles.CalendarDaySelected.Render
	case c.IsToday:
		style = styles.CalendarDayToday.Render
	case !c.InMonth:
		style = styles.CalendarDayOtherMonth.Render
	case hasTasks && agg.WorkloadScore > 100:
		style = styles.CalendarDayOverloaded.Render
	case hasTasks:
		style = styles.CalendarDayWithTasks.Render
	default:
		style = styles.CalendarDay.Render
	}

	switch {
	case hasTasks && agg.CriticalCount > 0:
		marker = "!"
	case hasTasks:
		marker = "*"
	default:
		marker = " "
	}
	return style, marker
}

// CalendarCompact renders the month as a small 7x6 grid.
func CalendarCompact(d CalendarData) string {
	var b strings.Builder

	b.WriteString(styles.CalendarHeader.Render(strings.ToUpper(d.Month.Format("January 2006"))))
	b.WriteString("\n")
	for _, wd := range weekdays {
		b.WriteString(styles.CalendarWeekday.Render(fmt.Sprintf(" %s ", wd)))
	}
	b.WriteString("\n")

	cells := projection.MonthCells(d.Month, d.Now)
	for i, c := range cells {
		style, marker := cellStyleFor(c, d)
		b.WriteString(style(fmt.Sprintf(" %2d%s", c.Date.Day(), marker)))
		b.WriteString(" ")
		if i%7 == 6 && i < len(cells)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CalendarExpanded renders the month with task titles inside each cell.
func CalendarExpanded(d CalendarData, width, height int) string {
	var b strings.Builder

	b.WriteString(styles.CalendarHeader.Render(strings.ToUpper(d.Month.Format("January 2006"))))
	b.WriteString("\n")

	// 7 columns and 8 vertical borders
	cellWidth := (width - 8) / 7
	if cellWidth < 5 {
		cellWidth = 5
	}
	if cellWidth > 20 {
		cellWidth = 20
	}
	// header + weekday row + 7 separators
	rowsPerCell := (height - 9) / 6
	if rowsPerCell < 2 {
		rowsPerCell = 2
	}

	border := styles.CalendarCellBorder.Render
	sep := border("├" + strings.Repeat(strings.Repeat("─", cellWidth)+"┼", 6) + strings.Repeat("─", cellWidth) + "┤")

	b.WriteString(border("│"))
	for _, wd := range weekdays {
		b.WriteString(styles.CalendarWeekday.Render(utils.PadRight(" "+wd, cellWidth)))
		b.WriteString(border("│"))
	}
	b.WriteString("\n")

	cells := projection.MonthCells(d.Month, d.Now)
	for week := 0; week < 6; week++ {
		b.WriteString(sep + "\n")
		for line := 0; line < rowsPerCell; line++ {
			b.WriteString(border("│"))
			for wd := 0; wd < 7; wd++ {
				c := cells[week*7+wd]
				b.WriteString(expandedCellLine(c, d, line, rowsPerCell, cellWidth))
				b.WriteString(border("│"))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString(border("└" + strings.Repeat(strings.Repeat("─", cellWidth)+"┴", 6) + strings.Repeat("─", cellWidth) + "┘"))
	return b.String()
}

func expandedCellLine(c projection.Cell, d CalendarData, line, rows, width int) string {
	if line == 0 {
		style, marker := cellStyleFor(c, d)
		return style(utils.PadRight(fmt.Sprintf("%2d%s", c.Date.Day(), marker), width))
	}

	tasks := d.ByDay[projection.DateKey(c.Date)]
	idx := line - 1
	if idx >= len(tasks) {
		return strings.Repeat(" ", width)
	}
	// Last line of a full cell becomes "+N more".
	if line == rows-1 && len(tasks) > rows-1 {
		return styles.CalendarMoreTasks.Render(utils.PadRight(fmt.Sprintf("+%d more", len(tasks)-idx), width))
	}
	t := tasks[idx]
	return styles.PriorityStyle(t.Priority).Render(utils.PadRight(t.Title, width))
}

// DaySummary renders the aggregate line for one day.
func DaySummary(agg projection.CalendarDayAggregate) string {
	parts := []string{fmt.Sprintf("%d tasks", agg.TaskCount)}
	if agg.PlannedHours > 0 {
		parts = append(parts, fmt.Sprintf("%.1fh planned", agg.PlannedHours))
	}
	if agg.FocusMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm focus", agg.FocusMinutes))
	}
	parts = append(parts, fmt.Sprintf("%d%% load", agg.WorkloadScore))
	if agg.CriticalCount > 0 {
		parts = append(parts, styles.TaskDueOverdue.Render(fmt.Sprintf("%d critical", agg.CriticalCount)))
	}
	return styles.Faint.Render(strings.Join(parts, " · "))
}
