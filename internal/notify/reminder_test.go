package notify

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/hy4ri/taskboard/internal/api"
)

func ptr(s string) *string {
	return &s
}

func TestReminderDue(t *testing.T) {
	loc := time.FixedZone("UTC+1", 60*60)
	today9am := time.Date(2026, 3, 16, 9, 0, 0, 0, loc)
	day := today9am.Format("2006-01-02")

	tests := []struct {
		name       string
		now        time.Time
		task       api.Task
		wantNotify bool
		wantMarked bool
	}{
		{
			name:       "day task at 9am",
			now:        today9am,
			task:       api.Task{ID: "1", DueDate: ptr(day)},
			wantNotify: true,
			wantMarked: true,
		},
		{
			name:       "day task within the hour",
			now:        today9am.Add(45 * time.Minute),
			task:       api.Task{ID: "2", DueDate: ptr(day)},
			wantNotify: true,
			wantMarked: true,
		},
		{
			name:       "day task too late is marked silently",
			now:        today9am.Add(2 * time.Hour),
			task:       api.Task{ID: "3", DueDate: ptr(day)},
			wantNotify: false,
			wantMarked: true,
		},
		{
			name:       "day task before 9am",
			now:        today9am.Add(-time.Hour),
			task:       api.Task{ID: "4", DueDate: ptr(day)},
			wantNotify: false,
			wantMarked: false,
		},
		{
			name:       "timed task due now",
			now:        today9am,
			task:       api.Task{ID: "5", DueDate: ptr(today9am.UTC().Format(time.RFC3339))},
			wantNotify: true,
			wantMarked: true,
		},
		{
			name:       "timed task 10 minutes old",
			now:        today9am.Add(10 * time.Minute),
			task:       api.Task{ID: "6", DueDate: ptr(today9am.Format(time.RFC3339))},
			wantNotify: false,
			wantMarked: true,
		},
		{
			name:       "completed task",
			now:        today9am,
			task:       api.Task{ID: "7", Status: api.StatusCompleted, DueDate: ptr(day)},
			wantNotify: false,
			wantMarked: false,
		},
		{
			name:       "no due date",
			now:        today9am,
			task:       api.Task{ID: "8"},
			wantNotify: false,
			wantMarked: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReminder(NotifierFunc(func(string, string) error { return nil }), nil)

			got := r.Due([]api.Task{tt.task}, tt.now)
			if (len(got) == 1) != tt.wantNotify {
				t.Errorf("notify = %v, want %v", len(got) == 1, tt.wantNotify)
			}
			if r.Notified(tt.task.ID) != tt.wantMarked {
				t.Errorf("marked = %v, want %v", r.Notified(tt.task.ID), tt.wantMarked)
			}
		})
	}
}

func TestReminderDue_MidnightDST(t *testing.T) {
	santiago, err := time.LoadLocation("America/Santiago")
	if err != nil {
		t.Fatalf("failed to load zone: %v", err)
	}
	r := NewReminder(NotifierFunc(func(string, string) error { return nil }), nil)
	task := api.Task{ID: "1", DueDate: ptr("2020-09-06")}

	if got := r.Due([]api.Task{task}, time.Date(2020, 9, 6, 8, 59, 0, 0, santiago)); len(got) != 0 {
		t.Fatal("expected no reminder before 09:00")
	}
	if got := r.Due([]api.Task{task}, time.Date(2020, 9, 6, 9, 0, 0, 0, santiago)); len(got) != 1 {
		t.Error("expected the reminder at 09:00 on the due day")
	}
}

func TestReminderCheck_OncePerSession(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 2, 0, 0, time.UTC)
	tasks := []api.Task{
		{ID: "1", Title: "Ship it", DueDate: ptr(now.Format(time.RFC3339)), Project: &api.ProjectRef{Name: "Launch"}},
	}

	var titles, messages []string
	r := NewReminder(NotifierFunc(func(title, message string) error {
		titles = append(titles, title)
		messages = append(messages, message)
		return nil
	}), nil)

	if sent := r.Check(tasks, now); sent != 1 {
		t.Fatalf("expected 1 notification, got %d", sent)
	}
	if sent := r.Check(tasks, now.Add(time.Minute)); sent != 0 {
		t.Errorf("expected no repeat notification, got %d", sent)
	}
	if titles[0] != "Launch" || messages[0] != "Task due: Ship it" {
		t.Errorf("unexpected notification %q / %q", titles[0], messages[0])
	}
}

func TestReminderCheck_NotifierError(t *testing.T) {
	now := time.Date(2026, 3, 16, 9, 0, 0, 0, time.UTC)
	tasks := []api.Task{{ID: "1", DueDate: ptr(now.Format(time.RFC3339))}}

	r := NewReminder(NotifierFunc(func(string, string) error { return errors.New("no dbus") }), nil)
	if sent := r.Check(tasks, now); sent != 0 {
		t.Errorf("expected failed sends not to count, got %d", sent)
	}
	if !r.Notified("1") {
		t.Error("a failed send should still not retry every minute")
	}
}
