package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/ui"
)

// BoardView shows tasks as kanban columns with WIP and age stats.
type BoardView struct {
	*BaseView
}

// NewBoardView creates a new BoardView.
func NewBoardView(s *state.State, ctx ViewContext) *BoardView {
	return &BoardView{BaseView: NewBaseView(s, ctx)}
}

// Name returns the view identifier.
func (v *BoardView) Name() string {
	return "board"
}

// OnEnter is called when switching to this view.
func (v *BoardView) OnEnter() tea.Cmd {
	v.clamp(v.columns())
	return nil
}

// OnExit is called when leaving this view.
func (v *BoardView) OnExit() {}

// columns projects the current tasks. The unsorted column is appended after
// the configured ones when it has tasks.
func (v *BoardView) columns() []ui.BoardColumn {
	projected := projection.ProjectColumns(v.State.Tasks, v.State.Columns, v.State.BoardSort)
	stats := projection.ComputeColumnStats(projected, v.State.Columns, v.State.Clock())

	cols := make([]ui.BoardColumn, 0, len(v.State.Columns)+1)
	for _, cfg := range v.State.Columns {
		cols = append(cols, ui.BoardColumn{Config: cfg, Tasks: projected[cfg.ID], Stats: stats[cfg.ID]})
	}
	if unsorted, ok := projected[projection.UnsortedColumnID]; ok {
		cols = append(cols, ui.BoardColumn{
			Config: projection.ColumnConfig{ID: projection.UnsortedColumnID, Title: "Unsorted"},
			Tasks:  unsorted,
			Stats:  stats[projection.UnsortedColumnID],
		})
	}
	return cols
}

func (v *BoardView) clamp(cols []ui.BoardColumn) {
	v.State.BoardColumn = state.ClampCursor(v.State.BoardColumn, len(cols))
	if len(cols) == 0 {
		v.State.BoardRow = 0
		return
	}
	v.State.BoardRow = state.ClampCursor(v.State.BoardRow, len(cols[v.State.BoardColumn].Tasks))
}

// HandleAction moves between columns and rows and cycles the sort mode.
func (v *BoardView) HandleAction(action state.Action) (tea.Cmd, bool) {
	cols := v.columns()
	switch action {
	case state.ActionLeft:
		v.State.BoardColumn--
	case state.ActionRight:
		v.State.BoardColumn++
	case state.ActionBoardSort:
		v.State.BoardSort = nextSortMode(v.State.BoardSort)
		v.SetStatus("Board sorted by " + string(v.State.BoardSort))
		cols = v.columns()
	default:
		if len(cols) == 0 {
			return nil, false
		}
		col := state.ClampCursor(v.State.BoardColumn, len(cols))
		return nil, v.moveCursor(&v.State.BoardRow, len(cols[col].Tasks), action)
	}
	v.clamp(cols)
	return nil, true
}

func nextSortMode(mode projection.SortMode) projection.SortMode {
	for i, m := range projection.SortModes {
		if m == mode {
			return projection.SortModes[(i+1)%len(projection.SortModes)]
		}
	}
	return projection.SortModes[0]
}

// HandleBack processes Escape for this view.
func (v *BoardView) HandleBack() (tea.Cmd, bool) {
	return nil, false
}

// Selected returns the task under the cursor in the focused column.
func (v *BoardView) Selected() *api.Task {
	cols := v.columns()
	if len(cols) == 0 {
		return nil
	}
	col := cols[state.ClampCursor(v.State.BoardColumn, len(cols))]
	if len(col.Tasks) == 0 {
		return nil
	}
	t := col.Tasks[state.ClampCursor(v.State.BoardRow, len(col.Tasks))]
	return &t
}

// Render returns the view's content.
func (v *BoardView) Render(width, height int) string {
	cols := v.columns()
	v.clamp(cols)
	return ui.Board(ui.BoardData{
		Columns:  cols,
		Focused:  v.State.BoardColumn,
		Row:      v.State.BoardRow,
		Now:      v.State.Clock(),
		Pending:  v.State.IsPending,
		SortMode: v.State.BoardSort,
	}, width, height)
}
