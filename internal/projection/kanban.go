package projection

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

const (
	// UnsortedColumnID collects tasks whose status no configured column lists.
	UnsortedColumnID = "unsorted"

	// BottleneckLoadRatio is the share of the WIP limit a column must exceed.
	BottleneckLoadRatio = 0.8

	// BottleneckAgeDays is the average age a column must exceed.
	BottleneckAgeDays = 3.0
)

// ErrInvalidColumns is returned by ValidateColumns.
var ErrInvalidColumns = errors.New("invalid board columns")

// ColumnConfig maps one or more statuses to a kanban column.
// A WIPLimit of zero means the column has no limit.
type ColumnConfig struct {
	ID       string       `json:"id" yaml:"id"`
	Title    string       `json:"title" yaml:"title"`
	Statuses []api.Status `json:"statuses" yaml:"statuses"`
	WIPLimit int          `json:"wipLimit" yaml:"wip_limit"`
}

// DefaultColumns returns the standard board layout. CANCELLED is deliberately
// absent and lands in the unsorted column.
func DefaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{ID: "backlog", Title: "Backlog", Statuses: []api.Status{api.StatusTodo}, WIPLimit: 20},
		{ID: "in_progress", Title: "In Progress", Statuses: []api.Status{api.StatusInProgress}, WIPLimit: 5},
		{ID: "review", Title: "Review", Statuses: []api.Status{api.StatusInReview}, WIPLimit: 5},
		{ID: "blocked", Title: "Blocked", Statuses: []api.Status{api.StatusBlocked}, WIPLimit: 3},
		{ID: "done", Title: "Done", Statuses: []api.Status{api.StatusCompleted}},
	}
}

// ValidateColumns checks that column ids are unique and that no status is
// claimed by more than one column.
func ValidateColumns(columns []ColumnConfig) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns configured", ErrInvalidColumns)
	}

	ids := make(map[string]bool, len(columns))
	owner := make(map[api.Status]string)

	for _, col := range columns {
		switch {
		case col.ID == "":
			return fmt.Errorf("%w: column with empty id", ErrInvalidColumns)
		case col.ID == UnsortedColumnID:
			return fmt.Errorf("%w: column id %q is reserved", ErrInvalidColumns, UnsortedColumnID)
		case ids[col.ID]:
			return fmt.Errorf("%w: duplicate column id %q", ErrInvalidColumns, col.ID)
		case col.WIPLimit < 0:
			return fmt.Errorf("%w: column %q has negative WIP limit", ErrInvalidColumns, col.ID)
		}
		ids[col.ID] = true

		for _, status := range col.Statuses {
			if !isKnownStatus(status) {
				return fmt.Errorf("%w: column %q lists unknown status %q", ErrInvalidColumns, col.ID, status)
			}
			if prev, ok := owner[status]; ok {
				return fmt.Errorf("%w: status %s is mapped to both %q and %q", ErrInvalidColumns, status, prev, col.ID)
			}
			owner[status] = col.ID
		}
	}

	return nil
}

func isKnownStatus(s api.Status) bool {
	for _, known := range api.Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// SortMode selects the order of tasks inside a kanban column.
type SortMode string

const (
	SortPriority SortMode = "priority"
	SortAging    SortMode = "aging"
	SortRecent   SortMode = "recent"
	SortComments SortMode = "comments"
)

// SortModes lists the supported kanban sort modes.
var SortModes = []SortMode{SortPriority, SortAging, SortRecent, SortComments}

// ParseSortMode returns the sort mode named s, or false if s is unknown.
func ParseSortMode(s string) (SortMode, bool) {
	for _, mode := range SortModes {
		if string(mode) == s {
			return mode, true
		}
	}
	return "", false
}

// ProjectColumns assigns each task to the first column listing its status and
// orders each column by mode. Every configured column is present in the result;
// the unsorted column is present only when a task lands in it.
func ProjectColumns(tasks []api.Task, columns []ColumnConfig, mode SortMode) map[string][]api.Task {
	byStatus := make(map[api.Status]string)
	result := make(map[string][]api.Task, len(columns)+1)

	for _, col := range columns {
		result[col.ID] = []api.Task{}
		for _, status := range col.Statuses {
			if _, taken := byStatus[status]; !taken {
				byStatus[status] = col.ID
			}
		}
	}

	for _, task := range tasks {
		id, ok := byStatus[task.Status]
		if !ok {
			id = UnsortedColumnID
		}
		result[id] = append(result[id], task)
	}

	for _, colTasks := range result {
		sortColumn(colTasks, mode)
	}

	return result
}

// sortColumn orders a column in place. Tasks with an unparseable updatedAt
// sort last in the aging and recent modes.
func sortColumn(tasks []api.Task, mode SortMode) {
	switch mode {
	case SortPriority:
		sortByPriority(tasks)
	case SortAging:
		// Oldest update first.
		sortByUpdated(tasks, func(a, b time.Time) bool { return a.Before(b) })
	case SortRecent:
		sortByUpdated(tasks, func(a, b time.Time) bool { return a.After(b) })
	case SortComments:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Counts.Comments > tasks[j].Counts.Comments
		})
	}
}

func sortByUpdated(tasks []api.Task, less func(a, b time.Time) bool) {
	type keyed struct {
		task    api.Task
		updated time.Time
		ok      bool
	}

	items := make([]keyed, len(tasks))
	for i := range tasks {
		ts, ok := tasks[i].Updated(time.UTC)
		items[i] = keyed{task: tasks[i], updated: ts, ok: ok}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		if !items[i].ok {
			return false
		}
		return less(items[i].updated, items[j].updated)
	})

	for i := range items {
		tasks[i] = items[i].task
	}
}

// ColumnStats summarises one kanban column.
type ColumnStats struct {
	Count        int     `json:"count"`
	AvgAgeDays   float64 `json:"avgAgeDays"`
	IsBottleneck bool    `json:"isBottleneck"`
}

// ComputeColumnStats computes count, average age and the bottleneck flag for
// every column in columnTasks. Configured columns missing from columnTasks get
// zero stats.
func ComputeColumnStats(columnTasks map[string][]api.Task, columns []ColumnConfig, now time.Time) map[string]ColumnStats {
	limits := make(map[string]int, len(columns))
	stats := make(map[string]ColumnStats, len(columns)+1)
	for _, col := range columns {
		limits[col.ID] = col.WIPLimit
		stats[col.ID] = ColumnStats{}
	}

	for id, colTasks := range columnTasks {
		s := ColumnStats{Count: len(colTasks)}
		if s.Count > 0 {
			var total float64
			for i := range colTasks {
				total += AgeDays(&colTasks[i], now)
			}
			s.AvgAgeDays = total / float64(s.Count)
		}
		s.IsBottleneck = isBottleneck(s, limits[id])
		stats[id] = s
	}

	return stats
}

func isBottleneck(s ColumnStats, wipLimit int) bool {
	if wipLimit <= 0 || s.Count == 0 {
		return false
	}
	return float64(s.Count) > BottleneckLoadRatio*float64(wipLimit) && s.AvgAgeDays > BottleneckAgeDays
}

// AgeDays returns the fractional days since the task was last updated.
// Missing or future timestamps count as zero.
func AgeDays(task *api.Task, now time.Time) float64 {
	updated, ok := task.Updated(now.Location())
	if !ok {
		return 0
	}
	age := now.Sub(updated).Hours() / 24
	if age < 0 {
		return 0
	}
	return age
}
