package projection

import (
	"testing"
	"time"

	"github.com/hy4ri/taskboard/internal/api"
)

func TestGroupTasksByDateIn(t *testing.T) {
	tasks := []api.Task{
		{ID: "low", Priority: api.PriorityLow, DueDate: strPtr("2026-03-09")},
		{ID: "late-utc", Priority: api.PriorityHigh, DueDate: strPtr("2026-03-10T02:00:00Z")},
		{ID: "urgent", Priority: api.PriorityUrgent, DueDate: strPtr("2026-03-09T18:30:00-05:00")},
		{ID: "high-2", Priority: api.PriorityHigh, DueDate: strPtr("2026-03-09T08:00:00-05:00")},
		{ID: "no-due", Priority: api.PriorityUrgent},
		{ID: "bad-due", Priority: api.PriorityUrgent, DueDate: strPtr("not a date")},
		{ID: "next", Priority: api.PriorityMedium, DueDate: strPtr("2026-03-10")},
	}

	got := GroupTasksByDateIn(tasks, testLoc)

	if len(got) != 2 {
		t.Fatalf("expected 2 day buckets, got %d: %v", len(got), got)
	}

	// 02:00Z on the 10th is 21:00 on the 9th at UTC-5.
	want := []string{"urgent", "late-utc", "high-2", "low"}
	if day := ids(got["2026-03-09"]); !equalIDs(day, want) {
		t.Errorf("2026-03-09 = %v, want %v", day, want)
	}
	if day := ids(got["2026-03-10"]); !equalIDs(day, []string{"next"}) {
		t.Errorf("2026-03-10 = %v, want [next]", day)
	}

	placed := 0
	for _, day := range got {
		placed += len(day)
	}
	if placed != 5 {
		t.Errorf("expected each dated task in exactly one bucket, %d placed", placed)
	}
}

func TestGroupTasksByDate_StableWithinPriority(t *testing.T) {
	tasks := []api.Task{
		{ID: "a", Priority: api.PriorityMedium, DueDate: strPtr("2026-05-01")},
		{ID: "b", Priority: api.PriorityMedium, DueDate: strPtr("2026-05-01T10:00:00")},
		{ID: "c", Priority: api.PriorityMedium, DueDate: strPtr("2026-05-01T09:00:00")},
	}

	got := GroupTasksByDateIn(tasks, testLoc)
	if day := ids(got["2026-05-01"]); !equalIDs(day, []string{"a", "b", "c"}) {
		t.Errorf("equal priorities must keep input order, got %v", day)
	}
	if tasks[0].ID != "a" || tasks[1].ID != "b" || tasks[2].ID != "c" {
		t.Error("input slice was modified")
	}
}

func TestGroupTasksByDate_Empty(t *testing.T) {
	got := GroupTasksByDate(nil)
	if got == nil {
		t.Fatal("expected an empty map, got nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no buckets, got %d", len(got))
	}
}

func TestBuildMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		anchor    time.Time
		wantFirst string
		wantLast  string
	}{
		{
			name:      "leap february",
			anchor:    time.Date(2024, time.February, 14, 15, 0, 0, 0, testLoc),
			wantFirst: "2024-01-28",
			wantLast:  "2024-03-09",
		},
		{
			name:      "month starting on sunday",
			anchor:    time.Date(2026, time.February, 1, 0, 0, 0, 0, testLoc),
			wantFirst: "2026-02-01",
			wantLast:  "2026-03-14",
		},
		{
			name:      "31-day month starting on saturday",
			anchor:    time.Date(2026, time.August, 31, 23, 59, 0, 0, testLoc),
			wantFirst: "2026-07-26",
			wantLast:  "2026-09-05",
		},
		{
			name:      "year boundary",
			anchor:    time.Date(2026, time.December, 25, 0, 0, 0, 0, time.UTC),
			wantFirst: "2026-11-29",
			wantLast:  "2027-01-09",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := BuildMonthGrid(tt.anchor)

			if len(grid) != GridCells {
				t.Fatalf("expected %d cells, got %d", GridCells, len(grid))
			}
			if grid[0].Weekday() != time.Sunday {
				t.Errorf("grid starts on %s, want Sunday", grid[0].Weekday())
			}
			if grid[6].Weekday() != time.Saturday {
				t.Errorf("7th cell is %s, want Saturday", grid[6].Weekday())
			}
			if grid[GridCells-1].Weekday() != time.Saturday {
				t.Errorf("grid ends on %s, want Saturday", grid[GridCells-1].Weekday())
			}
			if got := DateKey(grid[0]); got != tt.wantFirst {
				t.Errorf("first cell = %s, want %s", got, tt.wantFirst)
			}
			if got := DateKey(grid[GridCells-1]); got != tt.wantLast {
				t.Errorf("last cell = %s, want %s", got, tt.wantLast)
			}
			for i := 1; i < len(grid); i++ {
				if DayDiff(grid[i-1], grid[i]) != 1 {
					t.Fatalf("cells %d and %d are not consecutive days", i-1, i)
				}
			}
		})
	}
}

func TestBuildMonthGrid_AllMonths(t *testing.T) {
	for year := 2023; year <= 2028; year++ {
		for month := time.January; month <= time.December; month++ {
			anchor := time.Date(year, month, 15, 0, 0, 0, 0, time.UTC)
			grid := BuildMonthGrid(anchor)
			if len(grid) != GridCells || grid[0].Weekday() != time.Sunday {
				t.Fatalf("%d-%02d: bad grid start %v", year, month, grid[0])
			}
			first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			lastDay := first.AddDate(0, 1, -1)
			if grid[0].After(first) || grid[GridCells-1].Before(lastDay) {
				t.Fatalf("%d-%02d: grid does not cover the month", year, month)
			}
		}
	}
}

func TestBuildMonthGrid_MidnightDST(t *testing.T) {
	santiago := loadZone(t, "America/Santiago")
	grid := BuildMonthGrid(time.Date(2020, time.September, 10, 12, 0, 0, 0, santiago))

	want := []string{"2020-09-05", "2020-09-06", "2020-09-07"}
	for i, key := range want {
		if got := DateKey(grid[6+i]); got != key {
			t.Errorf("cell %d = %s, want %s", 6+i, got, key)
		}
	}

	for _, name := range midnightDSTZones {
		loc := loadZone(t, name)
		for year := 2020; year <= 2030; year++ {
			for month := time.January; month <= time.December; month++ {
				grid := BuildMonthGrid(time.Date(year, month, 1, 12, 0, 0, 0, loc))
				if grid[0].Weekday() != time.Sunday {
					t.Fatalf("%s %d-%02d: grid starts on %s", name, year, month, grid[0].Weekday())
				}
				for i := 1; i < len(grid); i++ {
					if DayDiff(grid[i-1], grid[i]) != 1 {
						t.Fatalf("%s %d-%02d: cells %d and %d are not consecutive (%s, %s)",
							name, year, month, i-1, i, DateKey(grid[i-1]), DateKey(grid[i]))
					}
				}
			}
		}
	}
}

func TestGroupTasksByDateIn_MidnightDST(t *testing.T) {
	santiago := loadZone(t, "America/Santiago")
	tasks := []api.Task{
		{ID: "switch-day", DueDate: strPtr("2020-09-06")},
		{ID: "day-before", DueDate: strPtr("2020-09-05")},
	}

	got := GroupTasksByDateIn(tasks, santiago)

	if !equalIDs(ids(got["2020-09-06"]), []string{"switch-day"}) {
		t.Errorf("2020-09-06 = %v, want [switch-day]", ids(got["2020-09-06"]))
	}
	if !equalIDs(ids(got["2020-09-05"]), []string{"day-before"}) {
		t.Errorf("2020-09-05 = %v, want [day-before]", ids(got["2020-09-05"]))
	}
}

func TestCivilDay(t *testing.T) {
	beirut := loadZone(t, "Asia/Beirut")
	// Lebanon skips 00:00 to 01:00 on the last Sunday of March.
	day := CivilDay(time.Date(2024, time.March, 31, 18, 0, 0, 0, beirut))

	for i, want := range []string{"2024-03-31", "2024-04-01", "2024-04-02"} {
		if got := DateKey(day.AddDate(0, 0, i)); got != want {
			t.Errorf("day +%d = %s, want %s", i, got, want)
		}
	}
	if got := DateKey(day.AddDate(0, 0, -1)); got != "2024-03-30" {
		t.Errorf("day -1 = %s, want 2024-03-30", got)
	}
}

func TestMonthCells(t *testing.T) {
	anchor := time.Date(2026, time.March, 1, 0, 0, 0, 0, testLoc)
	now := time.Date(2026, time.March, 17, 12, 0, 0, 0, testLoc)

	cells := MonthCells(anchor, now)

	inMonth, today := 0, 0
	for _, c := range cells {
		if c.InMonth {
			inMonth++
		}
		if c.IsToday {
			today++
			if DateKey(c.Date) != "2026-03-17" {
				t.Errorf("wrong today cell %s", DateKey(c.Date))
			}
		}
	}
	if inMonth != 31 {
		t.Errorf("expected 31 in-month cells, got %d", inMonth)
	}
	if today != 1 {
		t.Errorf("expected exactly one today cell, got %d", today)
	}
}

func TestAggregateDays(t *testing.T) {
	tasks := []api.Task{
		{ID: "1", Status: api.StatusTodo, Priority: api.PriorityUrgent, DueDate: strPtr("2026-04-02"), EstimatedHours: floatPtr(4)},
		{ID: "2", Status: api.StatusInProgress, Priority: api.PriorityLow, DueDate: strPtr("2026-04-02T15:00:00-05:00"), EstimatedHours: floatPtr(2), ActualHours: floatPtr(1.5)},
		{ID: "3", Status: api.StatusCompleted, Priority: api.PriorityUrgent, DueDate: strPtr("2026-04-02"), EstimatedHours: floatPtr(6), ActualHours: floatPtr(5)},
		{ID: "4", Status: api.StatusTodo, Priority: api.PriorityHigh, DueDate: strPtr("2026-04-03")},
	}

	days := AggregateDays(tasks, testLoc)

	d := days["2026-04-02"]
	if d.TaskCount != 3 {
		t.Errorf("TaskCount = %d, want 3", d.TaskCount)
	}
	if d.PlannedHours != 12 {
		t.Errorf("PlannedHours = %v, want 12", d.PlannedHours)
	}
	if d.ActualHours != 6.5 {
		t.Errorf("ActualHours = %v, want 6.5", d.ActualHours)
	}
	if d.FocusMinutes != 390 {
		t.Errorf("FocusMinutes = %d, want 390", d.FocusMinutes)
	}
	if d.WorkloadScore != 150 {
		t.Errorf("WorkloadScore = %d, want 150", d.WorkloadScore)
	}
	if d.DueCount != 2 {
		t.Errorf("DueCount = %d, want 2", d.DueCount)
	}
	if d.CriticalCount != 1 {
		t.Errorf("CriticalCount = %d, want 1", d.CriticalCount)
	}

	if next := days["2026-04-03"]; next.WorkloadScore != 0 || next.DueCount != 1 {
		t.Errorf("unexpected aggregate for 2026-04-03: %+v", next)
	}
}

func TestWorkloadScoreClamp(t *testing.T) {
	tests := []struct {
		hours float64
		want  int
	}{
		{0, 0},
		{4, 50},
		{8, 100},
		{16, 200},
		{40, 200},
	}
	for _, tt := range tests {
		if got := workloadScore(tt.hours); got != tt.want {
			t.Errorf("workloadScore(%v) = %d, want %d", tt.hours, got, tt.want)
		}
	}
}
