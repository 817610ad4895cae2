package projection

import (
	"math"
	"sort"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

// GridCells is the fixed size of a month grid: six weeks of seven days.
const GridCells = 42

// DayCapacityHours is the planned workload that scores 100.
const DayCapacityHours = 8.0

// maxWorkloadScore caps the workload score of an overloaded day.
const maxWorkloadScore = 200

// GroupTasksByDate buckets tasks by the local calendar day of their due date.
func GroupTasksByDate(tasks []api.Task) map[string][]api.Task {
	return GroupTasksByDateIn(tasks, time.Local)
}

// GroupTasksByDateIn buckets tasks by the calendar day of their due date as
// seen in loc. Tasks without a parseable due date are left out. Tasks within a
// day are ordered by priority, ties keeping their input order.
func GroupTasksByDateIn(tasks []api.Task, loc *time.Location) map[string][]api.Task {
	buckets := make(map[string][]api.Task)

	for _, task := range tasks {
		due, ok := task.Due(loc)
		if !ok {
			continue
		}
		key := DateKey(due)
		buckets[key] = append(buckets[key], task)
	}

	for _, dayTasks := range buckets {
		sortByPriority(dayTasks)
	}

	return buckets
}

// sortByPriority stably orders tasks URGENT first, LOW last.
func sortByPriority(tasks []api.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority.Rank() < tasks[j].Priority.Rank()
	})
}

// BuildMonthGrid returns the 42 days shown for the month containing anchor,
// starting on the Sunday on or before the first of the month. Every date is
// a CivilDate in anchor's location.
func BuildMonthGrid(anchor time.Time) []time.Time {
	y, m, loc := anchor.Year(), anchor.Month(), anchor.Location()
	lead := int(CivilDate(y, m, 1, loc).Weekday())

	grid := make([]time.Time, GridCells)
	for i := range grid {
		grid[i] = CivilDate(y, m, 1-lead+i, loc)
	}
	return grid
}

// Cell is one day of a rendered month grid.
type Cell struct {
	Date    time.Time
	InMonth bool
	IsToday bool
}

// MonthCells tags each day of the month grid for rendering.
func MonthCells(anchor, now time.Time) []Cell {
	grid := BuildMonthGrid(anchor)
	today := now.In(anchor.Location())

	cells := make([]Cell, len(grid))
	for i, day := range grid {
		cells[i] = Cell{
			Date:    day,
			InMonth: day.Month() == anchor.Month() && day.Year() == anchor.Year(),
			IsToday: SameDay(day, today),
		}
	}
	return cells
}

// CalendarDayAggregate is the per-day rollup shown next to a calendar day.
type CalendarDayAggregate struct {
	Date          string  `json:"date"`
	TaskCount     int     `json:"taskCount"`
	PlannedHours  float64 `json:"plannedHours"`
	ActualHours   float64 `json:"actualHours"`
	FocusMinutes  int     `json:"focusMinutes"`
	WorkloadScore int     `json:"workloadScore"`
	DueCount      int     `json:"dueCount"`
	CriticalCount int     `json:"criticalCount"`
}

// AggregateDays rolls up hours and counts for each day that has tasks due,
// using the same day keys as GroupTasksByDateIn.
func AggregateDays(tasks []api.Task, loc *time.Location) map[string]CalendarDayAggregate {
	days := make(map[string]CalendarDayAggregate)

	for key, dayTasks := range GroupTasksByDateIn(tasks, loc) {
		agg := CalendarDayAggregate{Date: key, TaskCount: len(dayTasks)}
		for _, task := range dayTasks {
			if task.EstimatedHours != nil {
				agg.PlannedHours += *task.EstimatedHours
			}
			if task.ActualHours != nil {
				agg.ActualHours += *task.ActualHours
			}
			if task.Status.IsClosed() {
				continue
			}
			agg.DueCount++
			if task.Priority == api.PriorityUrgent {
				agg.CriticalCount++
			}
		}
		agg.FocusMinutes = int(math.Round(agg.ActualHours * 60))
		agg.WorkloadScore = workloadScore(agg.PlannedHours)
		days[key] = agg
	}

	return days
}

func workloadScore(plannedHours float64) int {
	score := int(math.Round(plannedHours / DayCapacityHours * 100))
	if score < 0 {
		return 0
	}
	if score > maxWorkloadScore {
		return maxWorkloadScore
	}
	return score
}
