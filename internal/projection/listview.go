package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

// FilterAll is the sentinel filter value that matches everything.
const FilterAll = "all"

// SortField names the task field a list is ordered by.
type SortField string

const (
	SortByTitle     SortField = "title"
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByStatus    SortField = "status"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortFields lists every supported list sort field.
var SortFields = []SortField{SortByTitle, SortByDueDate, SortByPriority, SortByStatus, SortByCreatedAt, SortByUpdatedAt}

// SortDirection is ascending or descending.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// ListQuery describes a search, filter and sort projection of a task list.
// Empty strings and FilterAll disable the matching filter.
type ListQuery struct {
	Search      string        `json:"search"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	WorkspaceID string        `json:"workspaceId"`
	ProjectID   string        `json:"projectId"`
	SortField   SortField     `json:"sortField"`
	SortDir     SortDirection `json:"sortDir"`
}

// IsZero reports whether the query leaves the list unchanged.
func (q ListQuery) IsZero() bool {
	return strings.TrimSpace(q.Search) == "" &&
		!active(q.Status) && !active(q.Priority) &&
		!active(q.WorkspaceID) && !active(q.ProjectID) &&
		q.SortField == ""
}

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

// ApplyListQuery searches, filters and sorts a copy of tasks, in that order.
// The input slice is never modified.
func ApplyListQuery(tasks []api.Task, q ListQuery) []api.Task {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]api.Task, 0, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		if needle != "" && !matchesSearch(task, needle) {
			continue
		}
		if !matchesFilters(task, q) {
			continue
		}
		out = append(out, *task)
	}

	sortList(out, q.SortField, q.SortDir)
	return out
}

func matchesSearch(task *api.Task, needle string) bool {
	return strings.Contains(strings.ToLower(task.Title), needle) ||
		strings.Contains(strings.ToLower(task.Description), needle) ||
		strings.Contains(strings.ToLower(task.WorkspaceName()), needle)
}

func matchesFilters(task *api.Task, q ListQuery) bool {
	if active(q.Status) && string(task.Status) != q.Status {
		return false
	}
	if active(q.Priority) && string(task.Priority) != q.Priority {
		return false
	}
	if active(q.WorkspaceID) && task.WorkspaceID() != q.WorkspaceID {
		return false
	}
	if active(q.ProjectID) && task.ProjectID() != q.ProjectID {
		return false
	}
	return true
}

// sortKey is a comparable projection of one task field. ok is false when the
// task has no value for the field.
type sortKey struct {
	ok  bool
	num float64
	str string
}

func compareKeys(a, b sortKey) int {
	if a.str != b.str {
		return strings.Compare(a.str, b.str)
	}
	switch {
	case a.num < b.num:
		return -1
	case a.num > b.num:
		return 1
	default:
		return 0
	}
}

func keyFor(task *api.Task, field SortField) sortKey {
	switch field {
	case SortByTitle:
		title := strings.ToLower(strings.TrimSpace(task.Title))
		return sortKey{ok: title != "", str: title}
	case SortByDueDate:
		return timeKey(task.Due(time.Local))
	case SortByPriority:
		rank := task.Priority.Rank()
		return sortKey{ok: rank < len(api.Priorities), num: float64(rank)}
	case SortByStatus:
		for i, s := range api.Statuses {
			if task.Status == s {
				return sortKey{ok: true, num: float64(i)}
			}
		}
		return sortKey{}
	case SortByCreatedAt:
		return timeKey(task.Created(time.Local))
	case SortByUpdatedAt:
		return timeKey(task.Updated(time.Local))
	default:
		return sortKey{}
	}
}

func timeKey(t time.Time, ok bool) sortKey {
	if !ok {
		return sortKey{}
	}
	return sortKey{ok: true, num: float64(t.UnixNano())}
}

// sortList stably orders tasks by field. Tasks without a value for the field
// go last in both directions. An unknown or empty field keeps input order.
func sortList(tasks []api.Task, field SortField, dir SortDirection) {
	if !isSortField(field) {
		return
	}

	keys := make([]sortKey, len(tasks))
	idx := make([]int, len(tasks))
	for i := range tasks {
		keys[i] = keyFor(&tasks[i], field)
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		a, b := keys[idx[i]], keys[idx[j]]
		if a.ok != b.ok {
			return a.ok
		}
		if !a.ok {
			return false
		}
		c := compareKeys(a, b)
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})

	sorted := make([]api.Task, len(tasks))
	for i, from := range idx {
		sorted[i] = tasks[from]
	}
	copy(tasks, sorted)
}

func isSortField(field SortField) bool {
	for _, f := range SortFields {
		if f == field {
			return true
		}
	}
	return false
}
