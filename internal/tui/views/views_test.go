package views

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/tui/state"
)

type fakeCtx struct {
	markedRead string
	responded  string
	accepted   bool
}

func (f *fakeCtx) MarkNotificationRead(id string) tea.Cmd {
	f.markedRead = id
	return func() tea.Msg { return nil }
}

func (f *fakeCtx) RespondInvitation(id string, accept bool) tea.Cmd {
	f.responded = id
	f.accepted = accept
	return func() tea.Msg { return nil }
}

func strPtr(s string) *string { return &s }

var testNow = time.Date(2026, 3, 16, 10, 0, 0, 0, time.UTC)

func newState(tasks []api.Task) *state.State {
	s := state.New(func() time.Time { return testNow }, time.UTC)
	s.Tasks = tasks
	s.Width, s.Height = 100, 30
	return s
}

func sampleTasks() []api.Task {
	return []api.Task{
		{ID: "late", Title: "Late report", Status: api.StatusTodo, Priority: api.PriorityMedium, DueDate: strPtr("2026-03-14"), UpdatedAt: "2026-03-01T00:00:00Z"},
		{ID: "today-low", Title: "Water plants", Status: api.StatusTodo, Priority: api.PriorityLow, DueDate: strPtr("2026-03-16"), UpdatedAt: "2026-03-15T00:00:00Z"},
		{ID: "today-urgent", Title: "Hotfix", Status: api.StatusInProgress, Priority: api.PriorityUrgent, DueDate: strPtr("2026-03-16"), UpdatedAt: "2026-03-10T00:00:00Z"},
		{ID: "next-week", Title: "Retro", Status: api.StatusInReview, Priority: api.PriorityHigh, DueDate: strPtr("2026-03-20"), UpdatedAt: "2026-03-12T00:00:00Z"},
		{ID: "dropped", Title: "Dropped", Status: api.StatusCancelled, Priority: api.PriorityLow},
	}
}

func TestTodayView_SelectionFollowsSections(t *testing.T) {
	s := newState(sampleTasks())
	v := NewTodayView(s, &fakeCtx{})
	v.OnEnter()

	var got []string
	for i := 0; i < 5; i++ {
		if sel := v.Selected(); sel != nil {
			got = append(got, sel.ID)
		}
		v.HandleAction(state.ActionDown)
	}

	// Overdue, then today in input order, then upcoming; the cursor stops at
	// the last item.
	want := []string{"late", "today-low", "today-urgent", "next-week", "next-week"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("expected %v, got %v", want, got)
	}

	out := v.Render(100, 30)
	for _, header := range []string{"Overdue (1)", "Today (2)", "Upcoming (1)"} {
		if !strings.Contains(out, header) {
			t.Errorf("expected %q in output", header)
		}
	}
	if strings.Contains(out, "Tomorrow") {
		t.Error("expected empty sections to be hidden")
	}
}

func TestCalendarView_Navigation(t *testing.T) {
	s := newState(sampleTasks())
	v := NewCalendarView(s, &fakeCtx{})

	if sel := v.Selected(); sel == nil || sel.ID != "today-urgent" {
		t.Fatalf("expected urgent task first on today, got %+v", sel)
	}

	v.HandleAction(state.ActionRight)
	if got := projection.DateKey(s.CalendarDay); got != "2026-03-17" {
		t.Errorf("expected next day, got %s", got)
	}
	if v.Selected() != nil {
		t.Error("expected no tasks on 2026-03-17")
	}

	v.HandleAction(state.ActionNextMonth)
	if got := projection.DateKey(s.CalendarDay); got != "2026-04-17" {
		t.Errorf("expected next month, got %s", got)
	}

	if _, consumed := v.HandleBack(); !consumed {
		t.Error("expected esc to jump back to today")
	}
	if got := projection.DateKey(s.CalendarDay); got != "2026-03-16" {
		t.Errorf("expected today, got %s", got)
	}

	out := v.Render(100, 30)
	if !strings.Contains(out, "Monday, March 16") || !strings.Contains(out, "2 tasks") {
		t.Errorf("expected day header with aggregate, got:\n%s", out)
	}
}

func TestBoardView_ColumnsAndSort(t *testing.T) {
	s := newState(sampleTasks())
	v := NewBoardView(s, &fakeCtx{})
	v.OnEnter()

	cols := v.columns()
	if last := cols[len(cols)-1]; last.Config.ID != projection.UnsortedColumnID || len(last.Tasks) != 1 {
		t.Errorf("expected cancelled task in a trailing unsorted column, got %+v", last.Config)
	}

	if sel := v.Selected(); sel == nil || sel.ID != "late" {
		t.Errorf("expected backlog to sort urgent-first with late first, got %+v", sel)
	}

	v.HandleAction(state.ActionRight)
	if sel := v.Selected(); sel == nil || sel.ID != "today-urgent" {
		t.Errorf("expected in-progress column, got %+v", sel)
	}

	v.HandleAction(state.ActionBoardSort)
	if s.BoardSort != projection.SortAging {
		t.Errorf("expected sort to cycle to aging, got %s", s.BoardSort)
	}

	// Moving right past the end clamps.
	for i := 0; i < 10; i++ {
		v.HandleAction(state.ActionRight)
	}
	if s.BoardColumn != len(cols)-1 {
		t.Errorf("expected column clamp at %d, got %d", len(cols)-1, s.BoardColumn)
	}
}

func TestTasksView_FilterSortAndClear(t *testing.T) {
	s := newState(sampleTasks())
	v := NewTasksView(s, &fakeCtx{})

	v.HandleAction(state.ActionFilter) // all -> TODO
	if s.ListQuery.Status != string(api.StatusTodo) {
		t.Fatalf("expected TODO filter, got %q", s.ListQuery.Status)
	}
	if n := len(v.items()); n != 2 {
		t.Errorf("expected 2 TODO tasks, got %d", n)
	}

	v.HandleAction(state.ActionSortField) // "" -> title
	if s.ListQuery.SortField != projection.SortByTitle || s.ListQuery.SortDir != projection.Asc {
		t.Errorf("unexpected sort %+v", s.ListQuery)
	}
	if sel := v.Selected(); sel == nil || sel.ID != "late" {
		t.Errorf("expected 'Late report' first by title, got %+v", sel)
	}

	if _, consumed := v.HandleBack(); !consumed {
		t.Fatal("expected esc to clear the filter")
	}
	if s.ListQuery.Status != "" || s.ListQuery.SortField != projection.SortByTitle {
		t.Errorf("expected filter cleared and sort kept, got %+v", s.ListQuery)
	}
	if _, consumed := v.HandleBack(); consumed {
		t.Error("expected second esc to fall through")
	}
}

func TestInboxView_Actions(t *testing.T) {
	s := newState(sampleTasks())
	s.Invitations = []api.Invitation{{ID: "inv-1", Role: "MEMBER", Workspace: api.WorkspaceRef{Name: "Acme"}, InvitedBy: api.UserRef{Name: "Kai"}}}
	s.Notifications = []api.Notification{
		{ID: "n-1", Title: "Assigned", TaskID: strPtr("today-urgent")},
		{ID: "n-2", Title: "Old", IsRead: true},
	}
	ctx := &fakeCtx{}
	v := NewInboxView(s, ctx)

	if Unread(s) != 2 {
		t.Errorf("expected 2 unread items, got %d", Unread(s))
	}

	if cmd, _ := v.HandleAction(state.ActionAccept); cmd == nil || ctx.responded != "inv-1" || !ctx.accepted {
		t.Errorf("expected invitation accepted, got %+v", ctx)
	}

	v.HandleAction(state.ActionDown)
	if sel := v.Selected(); sel == nil || sel.ID != "today-urgent" {
		t.Errorf("expected notification to resolve its task, got %+v", sel)
	}
	v.HandleAction(state.ActionMarkRead)
	if ctx.markedRead != "n-1" {
		t.Errorf("expected n-1 marked read, got %q", ctx.markedRead)
	}

	v.HandleAction(state.ActionDown)
	ctx.markedRead = ""
	if cmd, _ := v.HandleAction(state.ActionMarkRead); cmd != nil || ctx.markedRead != "" {
		t.Error("expected already-read notification to be left alone")
	}

	out := v.Render(80, 20)
	if !strings.Contains(out, "Kai invited you to Acme as member") {
		t.Errorf("unexpected inbox output:\n%s", out)
	}
}

func TestCoordinator_SwitchToTab(t *testing.T) {
	s := newState(sampleTasks())
	c := NewCoordinator(s, &fakeCtx{})

	if c.GetCurrentView().Name() != "today" {
		t.Fatalf("expected today view first, got %s", c.GetCurrentView().Name())
	}
	c.SwitchToTab(state.TabBoard)
	if s.CurrentTab != state.TabBoard || c.GetCurrentView().Name() != "board" {
		t.Errorf("expected board view, got %s", c.GetCurrentView().Name())
	}
	if len(c.GetTabs()) != len(state.Tabs) {
		t.Errorf("expected a tab per state tab, got %d", len(c.GetTabs()))
	}
}
