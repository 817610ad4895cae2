package projection

import (
	"math"
	"testing"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	tasks := []api.Task{
		{Status: api.StatusCompleted, Priority: api.PriorityHigh},
		{Status: api.StatusCompleted, Priority: api.PriorityLow, DueDate: dueIn(now, -5)},
		{Status: api.StatusTodo, Priority: api.PriorityHigh, DueDate: dueIn(now, -1)},
		{Status: api.StatusBlocked, Priority: api.PriorityUrgent},
		{Status: api.StatusCancelled, Priority: api.PriorityLow},
	}

	s := Summarize(tasks, now)

	if s.Total != 5 || s.Completed != 2 {
		t.Errorf("Total/Completed = %d/%d, want 5/2", s.Total, s.Completed)
	}
	if s.Overdue != 1 {
		t.Errorf("Overdue = %d, want 1", s.Overdue)
	}
	if math.Abs(s.CompletionRate-0.5) > 1e-9 {
		t.Errorf("CompletionRate = %v, want 0.5", s.CompletionRate)
	}
	if s.ByStatus[api.StatusCompleted] != 2 || s.ByPriority[api.PriorityHigh] != 2 {
		t.Errorf("unexpected breakdown: %+v", s)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, time.Now())
	if s.Total != 0 || s.CompletionRate != 0 {
		t.Errorf("unexpected summary for empty input: %+v", s)
	}
	if s.ByStatus == nil || s.ByPriority == nil {
		t.Error("breakdown maps must be non-nil")
	}
}

func TestWorkloadByAssignee(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	ada := api.UserRef{ID: "u-1", Name: "Ada"}
	bob := api.UserRef{ID: "u-2", Name: "Bob"}

	tasks := []api.Task{
		{Status: api.StatusTodo, Assignees: []api.UserRef{ada}, EstimatedHours: floatPtr(30)},
		{Status: api.StatusInProgress, Assignees: []api.UserRef{ada, bob}, EstimatedHours: floatPtr(12)},
		{Status: api.StatusTodo, Assignees: []api.UserRef{bob}, DueDate: dueIn(now, -2)},
		{Status: api.StatusTodo, Assignees: []api.UserRef{bob}, DueDate: dueIn(now, -3)},
		{Status: api.StatusCompleted, Assignees: []api.UserRef{bob}, EstimatedHours: floatPtr(100)},
		{Status: api.StatusTodo, EstimatedHours: floatPtr(1)},
	}

	loads := WorkloadByAssignee(tasks, now)

	if len(loads) != 3 {
		t.Fatalf("expected 3 rows, got %d: %+v", len(loads), loads)
	}

	want := []struct {
		name  string
		open  int
		hours float64
		risk  BurnoutRisk
	}{
		{"Ada", 2, 42, RiskHigh},
		{"Bob", 3, 12, RiskMedium},
		{UnassignedName, 1, 1, RiskLow},
	}
	for i, w := range want {
		got := loads[i]
		if got.Name != w.name || got.OpenTasks != w.open || got.PlannedHours != w.hours || got.Risk != w.risk {
			t.Errorf("row %d = %+v, want %+v", i, got, w)
		}
	}
	if loads[1].Overdue != 2 {
		t.Errorf("Bob overdue = %d, want 2", loads[1].Overdue)
	}
}

func TestBurnoutRisk(t *testing.T) {
	tests := []struct {
		hours   float64
		overdue int
		want    BurnoutRisk
	}{
		{0, 0, RiskLow},
		{24, 1, RiskLow},
		{24.5, 0, RiskMedium},
		{0, 2, RiskMedium},
		{40, 4, RiskMedium},
		{40.5, 0, RiskHigh},
		{0, 5, RiskHigh},
	}
	for _, tt := range tests {
		if got := burnoutRisk(tt.hours, tt.overdue); got != tt.want {
			t.Errorf("burnoutRisk(%v, %d) = %s, want %s", tt.hours, tt.overdue, got, tt.want)
		}
	}
}
