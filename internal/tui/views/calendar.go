package views

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
)

// CalendarView shows a month grid and the tasks due on the selected day.
type CalendarView struct {
	*BaseView
}

// NewCalendarView creates a new CalendarView.
func NewCalendarView(s *state.State, ctx ViewContext) *CalendarView {
	return &CalendarView{BaseView: NewBaseView(s, ctx)}
}

// Name returns the view identifier.
func (v *CalendarView) Name() string {
	return "calendar"
}

// OnEnter is called when switching to this view.
func (v *CalendarView) OnEnter() tea.Cmd {
	v.State.Cursor = 0
	return nil
}

// OnExit is called when leaving this view.
func (v *CalendarView) OnExit() {}

func (v *CalendarView) dayTasks() []api.Task {
	byDay := projection.GroupTasksByDateIn(v.State.Tasks, v.State.Location)
	return byDay[projection.DateKey(v.State.CalendarDay)]
}

// HandleAction moves between days, weeks and months, and through the
// selected day's tasks.
func (v *CalendarView) HandleAction(action state.Action) (tea.Cmd, bool) {
	switch action {
	case state.ActionLeft:
		v.State.MoveCalendarDay(-1)
	case state.ActionRight:
		v.State.MoveCalendarDay(1)
	case state.ActionHalfUp:
		v.State.MoveCalendarDay(-7)
	case state.ActionHalfDown:
		v.State.MoveCalendarDay(7)
	case state.ActionPrevMonth:
		v.State.MoveCalendarMonth(-1)
	case state.ActionNextMonth:
		v.State.MoveCalendarMonth(1)
	case state.ActionGoToday:
		today := projection.CivilDay(v.State.Clock())
		v.State.CalendarDay = today
		v.State.CalendarMonth = today
	case state.ActionToggleView:
		if v.State.CalendarViewMode == state.CalendarViewCompact {
			v.State.CalendarViewMode = state.CalendarViewExpanded
		} else {
			v.State.CalendarViewMode = state.CalendarViewCompact
		}
		return nil, true
	case state.ActionUp, state.ActionDown, state.ActionTop, state.ActionBottom:
		return nil, v.moveCursor(&v.State.Cursor, len(v.dayTasks()), action)
	default:
		return nil, false
	}
	v.State.Cursor = 0
	return nil, true
}

// HandleBack returns to today's date.
func (v *CalendarView) HandleBack() (tea.Cmd, bool) {
	today := projection.CivilDay(v.State.Clock())
	if projection.SameDay(today, v.State.CalendarDay) {
		return nil, false
	}
	v.State.CalendarDay = today
	v.State.CalendarMonth = today
	v.State.Cursor = 0
	return nil, true
}

// Selected returns the task under the cursor in the day list.
func (v *CalendarView) Selected() *api.Task {
	tasks := v.dayTasks()
	if len(tasks) == 0 {
		return nil
	}
	t := tasks[state.ClampCursor(v.State.Cursor, len(tasks))]
	return &t
}

// Render returns the view's content.
func (v *CalendarView) Render(width, height int) string {
	now := v.State.Clock()
	byDay := projection.GroupTasksByDateIn(v.State.Tasks, v.State.Location)
	aggregates := projection.AggregateDays(v.State.Tasks, v.State.Location)
	data := ui.CalendarData{
		Month:      v.State.CalendarMonth,
		Selected:   v.State.CalendarDay,
		Now:        now,
		ByDay:      byDay,
		Aggregates: aggregates,
	}

	var b strings.Builder
	var gridLines int
	if v.State.CalendarViewMode == state.CalendarViewExpanded {
		grid := ui.CalendarExpanded(data, width, height*2/3)
		gridLines = strings.Count(grid, "\n") + 1
		b.WriteString(grid)
	} else {
		grid := ui.CalendarCompact(data)
		gridLines = strings.Count(grid, "\n") + 1
		b.WriteString(grid)
	}
	b.WriteString("\n\n")

	key := projection.DateKey(v.State.CalendarDay)
	b.WriteString(styles.Subtitle.Render(v.State.CalendarDay.Format("Monday, January 2")))
	if agg, ok := aggregates[key]; ok {
		b.WriteString("  " + ui.DaySummary(agg))
	}
	b.WriteString("\n")

	tasks := byDay[key]
	if len(tasks) == 0 {
		b.WriteString(ui.Empty("No tasks for this day"))
		return b.String()
	}

	cursor := state.ClampCursor(v.State.Cursor, len(tasks))
	rows := make([]ui.Row, 0, len(tasks))
	for i := range tasks {
		t := &tasks[i]
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
	// grid + blank + day header
	listHeight := height - gridLines - 2
	if listHeight < 1 {
		listHeight = 1
	}
	b.WriteString(ui.ScrollRows(rows, cursor, listHeight))
	return b.String()
}
