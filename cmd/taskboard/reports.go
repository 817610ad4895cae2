package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/source"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

// monthLayout is the --month flag format.
const monthLayout = "2006-01"

// loadReport fetches tasks for a one-shot report and warns on stale data.
func loadReport(cmd *cobra.Command, flags *globalFlags) (*env, *source.Result, error) {
	e, err := setup(cmd.Context(), *flags, modeReport)
	if err != nil {
		return nil, nil, err
	}
	res, err := e.source.Tasks(cmd.Context(), flags.workspace)
	if err != nil {
		e.Close()
		return nil, nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	if res.Stale {
		fmt.Fprintf(cmd.ErrOrStderr(), "Showing snapshot from %s\n", res.FetchedAt.Local().Format(time.RFC822))
	}
	return e, res, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func dueCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List overdue, today, tomorrow and upcoming tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, res, err := loadReport(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			windows := projection.ClassifyByDueWindow(res.Tasks, time.Now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), windows)
			}
			writeDue(cmd.OutOrStdout(), windows, time.Now())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

// writeDue prints each non-empty window as a section of task lines.
func writeDue(w io.Writer, windows projection.DueWindows, now time.Time) {
	if windows.Len() == 0 {
		fmt.Fprintln(w, "Nothing due this week.")
		return
	}

	sections := []struct {
		title string
		tasks []api.Task
	}{
		{"Overdue", windows.Overdue},
		{"Today", windows.Today},
		{"Tomorrow", windows.Tomorrow},
		{"Upcoming", windows.Upcoming},
	}
	for _, sec := range sections {
		if len(sec.tasks) == 0 {
			continue
		}
		fmt.Fprintln(w, styles.SectionHeader.Render(fmt.Sprintf("%s (%d)", sec.title, len(sec.tasks))))
		for i := range sec.tasks {
			fmt.Fprintln(w, ui.TaskLine(&sec.tasks[i], ui.TaskLineOptions{Width: 100, Now: now, ShowStatus: true}))
		}
	}
}

func calendarCmd(flags *globalFlags) *cobra.Command {
	var (
		month  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month grid with per-day workload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			anchor, err := parseMonth(month, time.Now())
			if err != nil {
				return err
			}

			e, res, err := loadReport(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), monthAggregates(res.Tasks, anchor))
			}
			writeCalendar(cmd.OutOrStdout(), res.Tasks, anchor, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVarP(&month, "month", "m", "", "month to show as YYYY-MM (default: this month)")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output the day aggregates as JSON")
	return cmd
}

// parseMonth returns the first of the month named by s, or of now's month
// when s is empty.
func parseMonth(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return projection.CivilDate(now.Year(), now.Month(), 1, now.Location()), nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return projection.CivilDate(t.Year(), t.Month(), 1, now.Location()), nil
}

// monthAggregates returns the aggregates of the days inside anchor's month,
// in date order.
func monthAggregates(tasks []api.Task, anchor time.Time) []projection.CalendarDayAggregate {
	prefix := anchor.Format(monthLayout) + "-"
	var out []projection.CalendarDayAggregate
	for key, agg := range projection.AggregateDays(tasks, anchor.Location()) {
		if strings.HasPrefix(key, prefix) {
			out = append(out, agg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func writeCalendar(w io.Writer, tasks []api.Task, anchor, now time.Time) {
	loc := anchor.Location()
	fmt.Fprintln(w, ui.CalendarCompact(ui.CalendarData{
		Month:      anchor,
		Selected:   now.In(loc),
		Now:        now,
		ByDay:      projection.GroupTasksByDateIn(tasks, loc),
		Aggregates: projection.AggregateDays(tasks, loc),
	}))

	days := monthAggregates(tasks, anchor)
	if len(days) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, agg := range days {
		date, _ := time.Parse(projection.DateKeyLayout, agg.Date)
		fmt.Fprintf(w, "%s  %s\n", date.Format("Mon Jan 02"), ui.DaySummary(agg))
	}
}

func boardCmd(flags *globalFlags) *cobra.Command {
	var (
		sortMode string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show tasks as kanban columns with WIP and age stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := projection.ParseSortMode(sortMode)
			if !ok {
				return fmt.Errorf("invalid sort %q (priority, aging, recent, comments)", sortMode)
			}

			e, res, err := loadReport(cmd, flags)
			if err != nil {
				return err
			}
			defer e.Close()

			cols := boardColumns(res.Tasks, e.cfg.Columns(), mode, time.Now())
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cols)
			}
			writeBoard(cmd.OutOrStdout(), cols)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sortMode, "sort", "s", string(projection.SortPriority), "column order: priority, aging, recent or comments")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}

// boardColumn is one column of the board report.
type boardColumn struct {
	ID       string                 `json:"id"`
	Title    string                 `json:"title"`
	WIPLimit int                    `json:"wipLimit"`
	Stats    projection.ColumnStats `json:"stats"`
	Tasks    []api.Task             `json:"tasks"`
}

// boardColumns projects tasks into the configured columns plus, when
// needed, the unsorted column.
func boardColumns(tasks []api.Task, columns []projection.ColumnConfig, mode projection.SortMode, now time.Time) []boardColumn {
	projected := projection.ProjectColumns(tasks, columns, mode)
	stats := projection.ComputeColumnStats(projected, columns, now)

	out := make([]boardColumn, 0, len(columns)+1)
	for _, c := range columns {
		out = append(out, boardColumn{ID: c.ID, Title: c.Title, WIPLimit: c.WIPLimit, Stats: stats[c.ID], Tasks: projected[c.ID]})
	}
	if unsorted, ok := projected[projection.UnsortedColumnID]; ok {
		out = append(out, boardColumn{ID: projection.UnsortedColumnID, Title: "Unsorted", Stats: stats[projection.UnsortedColumnID], Tasks: unsorted})
	}
	return out
}

// writeBoard renders the columns side by side as a table.
func writeBoard(w io.Writer, cols []boardColumn) {
	headers := make([]string, len(cols))
	depth := 0
	for i, c := range cols {
		h := fmt.Sprintf("%s %d", c.Title, c.Stats.Count)
		if c.WIPLimit > 0 {
			h += fmt.Sprintf("/%d", c.WIPLimit)
		}
		if c.Stats.IsBottleneck {
			h += " ⚠"
		}
		headers[i] = h
		depth = max(depth, len(c.Tasks))
	}

	rows := make([][]string, depth)
	for r := range rows {
		rows[r] = make([]string, len(cols))
		for i, c := range cols {
			if r < len(c.Tasks) {
				rows[r][i] = utils.TruncateString(c.Tasks[r].Title, 24)
			}
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.Faint).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.ColumnTitle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())

	for _, c := range cols {
		if c.Stats.Count > 0 {
			fmt.Fprintf(w, "%-12s avg age %.1fd\n", c.Title, c.Stats.AvgAgeDays)
		}
	}
}
