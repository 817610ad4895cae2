// Package state holds the shared TUI state that views read and mutate.
package state

import (
	"strings"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/projection"
)

// Tab represents a top-level tab.
type Tab int

const (
	TabToday Tab = iota
	TabCalendar
	TabBoard
	TabTasks
	TabInbox
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabToday, TabCalendar, TabBoard, TabTasks, TabInbox}

var tabNames = map[Tab]string{
	TabToday:    "today",
	TabCalendar: "calendar",
	TabBoard:    "board",
	TabTasks:    "tasks",
	TabInbox:    "inbox",
}

// String returns the tab's flag/config name.
func (t Tab) String() string {
	return tabNames[t]
}

// ParseTab parses a tab name as used by --tab and ui.default_tab.
func ParseTab(s string) (Tab, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for tab, name := range tabNames {
		if name == s {
			return tab, true
		}
	}
	return TabToday, false
}

// Next returns the tab after t, wrapping around.
func (t Tab) Next() Tab {
	return Tabs[(int(t)+1)%len(Tabs)]
}

// Prev returns the tab before t, wrapping around.
func (t Tab) Prev() Tab {
	return Tabs[(int(t)+len(Tabs)-1)%len(Tabs)]
}

// InputMode is the active text prompt, if any.
type InputMode int

const (
	InputNone InputMode = iota
	InputQuickAdd
	InputSearch
)

// CalendarViewMode represents the calendar display mode.
type CalendarViewMode int

const (
	CalendarViewCompact  CalendarViewMode = iota // Small grid view
	CalendarViewExpanded                         // Grid with task names in cells
)

// ParseCalendarViewMode maps the config value to a mode.
func ParseCalendarViewMode(s string) CalendarViewMode {
	if strings.EqualFold(s, "expanded") {
		return CalendarViewExpanded
	}
	return CalendarViewCompact
}

// State holds the application state.
// All fields are exported to allow access from the views and ui packages.
type State struct {
	// Data
	Tasks         []api.Task
	Projects      []api.Project
	Notifications []api.Notification
	Invitations   []api.Invitation
	FetchedAt     time.Time
	Stale         bool

	// Scope
	WorkspaceID string
	Location    *time.Location
	Now         func() time.Time

	// Navigation
	CurrentTab Tab
	Cursor     int
	KeyState   KeyState

	// Board
	Columns     []projection.ColumnConfig
	BoardSort   projection.SortMode
	BoardColumn int
	BoardRow    int

	// Calendar
	CalendarMonth    time.Time
	CalendarDay      time.Time
	CalendarViewMode CalendarViewMode

	// Task list
	ListQuery projection.ListQuery

	// Inbox
	InboxCursor int

	// UI state
	Loading       bool
	Err           error
	StatusMsg     string
	Width         int
	Height        int
	ShowHelp      bool
	Input         InputMode
	ConfirmDelete *api.Task

	// Pending holds task ids with a mutation in flight.
	Pending map[string]bool
	// LiveConnected is true while the notification stream is open.
	LiveConnected bool
}

// New returns a State with defaults applied.
func New(now func() time.Time, loc *time.Location) *State {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	today := projection.CivilDay(now().In(loc))
	return &State{
		Location:      loc,
		Now:           now,
		Columns:       projection.DefaultColumns(),
		BoardSort:     projection.SortPriority,
		CalendarMonth: today,
		CalendarDay:   today,
		Pending:       make(map[string]bool),
	}
}

// Clock returns the current time in the session location.
func (s *State) Clock() time.Time {
	return s.Now().In(s.Location)
}

// SetTasks replaces the task list and records where it came from.
func (s *State) SetTasks(tasks []api.Task, fetchedAt time.Time, stale bool) {
	s.Tasks = tasks
	s.FetchedAt = fetchedAt
	s.Stale = stale
}

// IsPending reports whether a mutation on the task is in flight.
func (s *State) IsPending(id string) bool {
	return s.Pending[id]
}

// SetStatus sets a status message and clears any error.
func (s *State) SetStatus(msg string) {
	s.StatusMsg = msg
	s.Err = nil
}

// SetError shows err in the status bar.
func (s *State) SetError(err error) {
	s.Err = err
	s.StatusMsg = ""
}

// ClampCursor keeps a cursor inside [0, n).
func ClampCursor(cursor, n int) int {
	if n <= 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// MoveCalendarDay moves the selected day and keeps the displayed month in
// sync with it.
func (s *State) MoveCalendarDay(days int) {
	s.CalendarDay = s.CalendarDay.AddDate(0, 0, days)
	s.CalendarMonth = s.CalendarDay
}

// MoveCalendarMonth moves the displayed month, clamping the selected day to
// the new month's length.
func (s *State) MoveCalendarMonth(months int) {
	day := s.CalendarDay.Day()
	first := projection.CivilDate(s.CalendarDay.Year(), s.CalendarDay.Month()+time.Month(months), 1, s.Location)
	last := first.AddDate(0, 1, -1).Day()
	if day > last {
		day = last
	}
	s.CalendarDay = projection.CivilDate(first.Year(), first.Month(), day, s.Location)
	s.CalendarMonth = s.CalendarDay
}
