// Package projection derives calendar, kanban, due-window and list views
// from a snapshot of tasks. Every function here is pure: it never mutates its
// input and never performs I/O, so it is safe to call on every render.
package projection

import (
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

// DateKeyLayout is the layout of the day keys used by calendar buckets.
const DateKeyLayout = "2006-01-02"

// DateKey returns the calendar-day key of t in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// CivilDate returns the given calendar date at api.DateOnlyHour in loc. Day
// values in calendars and grids use it so adding days never skips or repeats
// a date around DST changes.
func CivilDate(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, api.DateOnlyHour, 0, 0, 0, loc)
}

// CivilDay returns t's calendar date as a CivilDate in t's location.
func CivilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return CivilDate(y, m, d, t.Location())
}

// DayDiff returns the number of calendar days from "from" to "to", comparing
// the calendar dates as seen in each value's location. Callers should pass
// values in the same location.
func DayDiff(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	// UTC has no DST transitions, so whole days divide evenly.
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
