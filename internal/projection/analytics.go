package projection

import (
	"sort"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

// Summary is a headline rollup of a task list.
type Summary struct {
	Total          int                  `json:"total"`
	ByStatus       map[api.Status]int   `json:"byStatus"`
	ByPriority     map[api.Priority]int `json:"byPriority"`
	Completed      int                  `json:"completed"`
	Overdue        int                  `json:"overdue"`
	CompletionRate float64              `json:"completionRate"`
}

// Summarize counts tasks by status and priority. The completion rate ignores
// cancelled tasks and is zero when nothing is left to complete.
func Summarize(tasks []api.Task, now time.Time) Summary {
	s := Summary{
		Total:      len(tasks),
		ByStatus:   make(map[api.Status]int),
		ByPriority: make(map[api.Priority]int),
	}

	cancelled := 0
	for i := range tasks {
		task := &tasks[i]
		s.ByStatus[task.Status]++
		s.ByPriority[task.Priority]++

		switch task.Status {
		case api.StatusCompleted:
			s.Completed++
		case api.StatusCancelled:
			cancelled++
		}
		if IsOverdue(task, now) {
			s.Overdue++
		}
	}

	if denom := s.Total - cancelled; denom > 0 {
		s.CompletionRate = float64(s.Completed) / float64(denom)
	}
	return s
}

// BurnoutRisk grades an assignee's open workload.
type BurnoutRisk string

const (
	RiskLow    BurnoutRisk = "low"
	RiskMedium BurnoutRisk = "medium"
	RiskHigh   BurnoutRisk = "high"
)

// Burnout thresholds on open planned hours and overdue task counts.
const (
	highRiskHours   = 40.0
	mediumRiskHours = 24.0
	highRiskOverdue = 5
	medRiskOverdue  = 2
)

// UnassignedName labels the workload row of tasks with no assignee.
const UnassignedName = "Unassigned"

// AssigneeLoad is one row of the workload table.
type AssigneeLoad struct {
	UserID       string      `json:"userId"`
	Name         string      `json:"name"`
	OpenTasks    int         `json:"openTasks"`
	PlannedHours float64     `json:"plannedHours"`
	Overdue      int         `json:"overdue"`
	Risk         BurnoutRisk `json:"risk"`
}

// WorkloadByAssignee totals open work per assignee. A task shared by several
// assignees counts fully for each. Rows are ordered by planned hours, most
// loaded first, then by name.
func WorkloadByAssignee(tasks []api.Task, now time.Time) []AssigneeLoad {
	rows := make(map[string]*AssigneeLoad)
	order := make([]string, 0)

	row := func(id, name string) *AssigneeLoad {
		if r, ok := rows[id]; ok {
			return r
		}
		r := &AssigneeLoad{UserID: id, Name: name}
		rows[id] = r
		order = append(order, id)
		return r
	}

	for i := range tasks {
		task := &tasks[i]
		if task.Status.IsClosed() {
			continue
		}

		var hours float64
		if task.EstimatedHours != nil {
			hours = *task.EstimatedHours
		}
		overdue := IsOverdue(task, now)

		refs := task.Assignees
		if len(refs) == 0 {
			refs = []api.UserRef{{Name: UnassignedName}}
		}
		for _, ref := range refs {
			r := row(ref.ID, ref.Name)
			r.OpenTasks++
			r.PlannedHours += hours
			if overdue {
				r.Overdue++
			}
		}
	}

	loads := make([]AssigneeLoad, 0, len(order))
	for _, id := range order {
		r := rows[id]
		r.Risk = burnoutRisk(r.PlannedHours, r.Overdue)
		loads = append(loads, *r)
	}

	sort.SliceStable(loads, func(i, j int) bool {
		if loads[i].PlannedHours != loads[j].PlannedHours {
			return loads[i].PlannedHours > loads[j].PlannedHours
		}
		return loads[i].Name < loads[j].Name
	})

	return loads
}

func burnoutRisk(hours float64, overdue int) BurnoutRisk {
	switch {
	case hours > highRiskHours || overdue >= highRiskOverdue:
		return RiskHigh
	case hours > mediumRiskHours || overdue >= medRiskOverdue:
		return RiskMedium
	default:
		return RiskLow
	}
}
