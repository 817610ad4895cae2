package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
)

// TasksView is the searchable, filterable, sortable task list.
type TasksView struct {
	*BaseView
}

// NewTasksView creates a new TasksView.
func NewTasksView(s *state.State, ctx ViewContext) *TasksView {
	return &TasksView{BaseView: NewBaseView(s, ctx)}
}

// Name returns the view identifier.
func (v *TasksView) Name() string {
	return "tasks"
}

// OnEnter is called when switching to this view.
func (v *TasksView) OnEnter() tea.Cmd {
	v.State.Cursor = state.ClampCursor(v.State.Cursor, len(v.items()))
	return nil
}

// OnExit is called when leaving this view.
func (v *TasksView) OnExit() {}

func (v *TasksView) items() []api.Task {
	return projection.ApplyListQuery(v.State.Tasks, v.State.ListQuery)
}

// statusFilters is the cycle used by the filter key.
var statusFilters = append([]string{projection.FilterAll}, statusNames()...)

func statusNames() []string {
	names := make([]string, len(api.Statuses))
	for i, s := range api.Statuses {
		names[i] = string(s)
	}
	return names
}

func nextInCycle[T comparable](cycle []T, current T) T {
	for i, c := range cycle {
		if c == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

// HandleAction moves the cursor and changes the sort and filter.
func (v *TasksView) HandleAction(action state.Action) (tea.Cmd, bool) {
	q := &v.State.ListQuery
	switch action {
	case state.ActionSortField:
		q.SortField = nextInCycle(projection.SortFields, q.SortField)
		if q.SortDir == "" {
			q.SortDir = projection.Asc
		}
	case state.ActionSortDir:
		if q.SortDir == projection.Desc {
			q.SortDir = projection.Asc
		} else {
			q.SortDir = projection.Desc
		}
	case state.ActionFilter:
		current := q.Status
		if current == "" {
			current = projection.FilterAll
		}
		q.Status = nextInCycle(statusFilters, current)
	default:
		return nil, v.moveCursor(&v.State.Cursor, len(v.items()), action)
	}
	v.State.Cursor = 0
	return nil, true
}

// HandleBack clears the search and filters.
func (v *TasksView) HandleBack() (tea.Cmd, bool) {
	q := v.State.ListQuery
	cleared := projection.ListQuery{WorkspaceID: q.WorkspaceID, SortField: q.SortField, SortDir: q.SortDir}
	if q == cleared {
		return nil, false
	}
	v.State.ListQuery = cleared
	v.State.Cursor = 0
	v.SetStatus("Filters cleared")
	return nil, true
}

// Selected returns the task under the cursor.
func (v *TasksView) Selected() *api.Task {
	items := v.items()
	if len(items) == 0 {
		return nil
	}
	t := items[state.ClampCursor(v.State.Cursor, len(items))]
	return &t
}

func describeQuery(q projection.ListQuery) string {
	var parts []string
	if s := strings.TrimSpace(q.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	if q.Status != "" && q.Status != projection.FilterAll {
		parts = append(parts, "status "+q.Status)
	}
	if q.Priority != "" && q.Priority != projection.FilterAll {
		parts = append(parts, "priority "+q.Priority)
	}
	if q.SortField != "" {
		arrow := "↑"
		if q.SortDir == projection.Desc {
			arrow = "↓"
		}
		parts = append(parts, "sort "+string(q.SortField)+" "+arrow)
	}
	if len(parts) == 0 {
		return "all tasks"
	}
	return strings.Join(parts, " · ")
}

// Render returns the view's content.
func (v *TasksView) Render(width, height int) string {
	items := v.items()
	now := v.State.Clock()
	cursor := state.ClampCursor(v.State.Cursor, len(items))

	header := styles.Faint.Render(fmt.Sprintf("%s (%d of %d)", describeQuery(v.State.ListQuery), len(items), len(v.State.Tasks)))
	if len(items) == 0 {
		return header + "\n" + ui.Empty("No tasks match")
	}

	rows := make([]ui.Row, 0, len(items))
	for i := range items {
		t := &items[i]
		rows = append(rows, ui.Row{
			Text: ui.TaskLine(t, ui.TaskLineOptions{
				Width:      width,
				Now:        now,
				Selected:   i == cursor,
				Pending:    v.State.IsPending(t.ID),
				ShowStatus: true,
			}),
			Task: t,
		})
	}
	return header + "\n" + ui.ScrollRows(rows, cursor, height-1)
}
