package views

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
)

// TodayView shows overdue, today, tomorrow and upcoming tasks.
type TodayView struct {
	*BaseView
}

// NewTodayView creates a new TodayView.
func NewTodayView(s *state.State, ctx ViewContext) *TodayView {
	return &TodayView{BaseView: NewBaseView(s, ctx)}
}

// Name returns the view identifier.
func (v *TodayView) Name() string {
	return "today"
}

// OnEnter is called when switching to this view.
func (v *TodayView) OnEnter() tea.Cmd {
	v.State.Cursor = state.ClampCursor(v.State.Cursor, len(v.items()))
	return nil
}

// OnExit is called when leaving this view.
func (v *TodayView) OnExit() {}

type section struct {
	title string
	tasks []api.Task
}

func (v *TodayView) sections() []section {
	w := projection.ClassifyByDueWindow(v.State.Tasks, v.State.Clock())
	return []section{
		{"Overdue", w.Overdue},
		{"Today", w.Today},
		{"Tomorrow", w.Tomorrow},
		{"Upcoming", w.Upcoming},
	}
}

// items flattens the sections in display order.
func (v *TodayView) items() []api.Task {
	var all []api.Task
	for _, sec := range v.sections() {
		all = append(all, sec.tasks...)
	}
	return all
}

// HandleAction processes navigation within the flattened list.
func (v *TodayView) HandleAction(action state.Action) (tea.Cmd, bool) {
	return nil, v.moveCursor(&v.State.Cursor, len(v.items()), action)
}

// HandleBack processes Escape for this view.
func (v *TodayView) HandleBack() (tea.Cmd, bool) {
	return nil, false
}

// Selected returns the task under the cursor.
func (v *TodayView) Selected() *api.Task {
	items := v.items()
	if len(items) == 0 {
		return nil
	}
	t := items[state.ClampCursor(v.State.Cursor, len(items))]
	return &t
}

// Render returns the view's content.
func (v *TodayView) Render(width, height int) string {
	now := v.State.Clock()
	cursor := state.ClampCursor(v.State.Cursor, len(v.items()))

	var rows []ui.Row
	focus, idx := 0, 0
	for _, sec := range v.sections() {
		if len(sec.tasks) == 0 {
			continue
		}
		rows = append(rows, ui.Row{Text: styles.SectionHeader.Render(fmt.Sprintf("%s (%d)", sec.title, len(sec.tasks)))})
		for i := range sec.tasks {
			t := &sec.tasks[i]
			if idx == cursor {
				focus = len(rows)
			}
			rows = append(rows, ui.Row{
				Text: ui.TaskLine(t, ui.TaskLineOptions{
					Width:      width,
					Now:        now,
					Selected:   idx == cursor,
					Pending:    v.State.IsPending(t.ID),
					ShowStatus: true,
				}),
				Task: t,
			})
			idx++
		}
	}

	if len(rows) == 0 {
		return ui.Empty("Nothing due. Enjoy the quiet.")
	}
	return ui.ScrollRows(rows, focus, height)
}
