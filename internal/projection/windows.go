package projection

import (
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

// UpcomingDays is the width of the upcoming window, counted from today.
const UpcomingDays = 7

// DueWindows holds tasks split into mutually exclusive due-date buckets.
type DueWindows struct {
	Overdue  []api.Task `json:"overdue"`
	Today    []api.Task `json:"today"`
	Tomorrow []api.Task `json:"tomorrow"`
	Upcoming []api.Task `json:"upcoming"`
}

// Len returns the number of classified tasks.
func (w DueWindows) Len() int {
	return len(w.Overdue) + len(w.Today) + len(w.Tomorrow) + len(w.Upcoming)
}

// ClassifyByDueWindow buckets tasks by comparing the calendar day of their due
// date with now's calendar day, in now's location. A completed task due in the
// past is in no bucket. Input order is kept inside each bucket.
func ClassifyByDueWindow(tasks []api.Task, now time.Time) DueWindows {
	w := DueWindows{
		Overdue:  []api.Task{},
		Today:    []api.Task{},
		Tomorrow: []api.Task{},
		Upcoming: []api.Task{},
	}

	loc := now.Location()
	for _, task := range tasks {
		due, ok := task.Due(loc)
		if !ok {
			continue
		}

		switch diff := DayDiff(now, due); {
		case diff == 0:
			w.Today = append(w.Today, task)
		case diff < 0:
			if task.Status != api.StatusCompleted {
				w.Overdue = append(w.Overdue, task)
			}
		case diff == 1:
			w.Tomorrow = append(w.Tomorrow, task)
		case diff < UpcomingDays:
			w.Upcoming = append(w.Upcoming, task)
		}
	}

	return w
}

// IsOverdue reports whether task would be classified as overdue at now.
func IsOverdue(task *api.Task, now time.Time) bool {
	if task.Status == api.StatusCompleted {
		return false
	}
	due, ok := task.Due(now.Location())
	if !ok {
		return false
	}
	return DayDiff(now, due) < 0
}
