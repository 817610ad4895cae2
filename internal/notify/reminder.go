// Package notify sends desktop reminders for tasks as they come due.
package notify

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/hy4ri/taskboard/internal/api"
)

const (
	// dayTaskHour is when a date-only task is considered due.
	dayTaskHour = 9

	timedWindow = 5 * time.Minute
	dayWindow   = 60 * time.Minute
)

// Notifier delivers a single notification.
type Notifier interface {
	Notify(title, message string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct{}

// Notify implements Notifier.
func (Desktop) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(title, message string) error {
	return f(title, message)
}

// Reminder tracks which tasks have been announced in this session.
type Reminder struct {
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	notified map[string]bool
}

// NewReminder creates a reminder that sends through n.
func NewReminder(n Notifier, logger *slog.Logger) *Reminder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reminder{
		notifier: n,
		logger:   logger,
		notified: make(map[string]bool),
	}
}

// Due returns the tasks whose due time has just passed at now and marks them
// so they are never returned again. Tasks that went due too long ago are
// marked silently so a late start does not flood the desktop.
func (r *Reminder) Due(tasks []api.Task, now time.Time) []api.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	due := make([]api.Task, 0)
	for i := range tasks {
		task := &tasks[i]
		if r.notified[task.ID] || task.Status.IsClosed() {
			continue
		}

		dueTime, dayOnly, ok := effectiveDue(task, now.Location())
		if !ok || now.Before(dueTime) {
			continue
		}

		window := timedWindow
		if dayOnly {
			window = dayWindow
		}

		r.notified[task.ID] = true
		if now.Sub(dueTime) > window {
			r.logger.Debug("skipping stale reminder", "task", task.ID, "late", now.Sub(dueTime))
			continue
		}
		due = append(due, *task)
	}
	return due
}

// Check sends one notification per newly due task and returns how many were
// sent successfully.
func (r *Reminder) Check(tasks []api.Task, now time.Time) int {
	sent := 0
	for _, task := range r.Due(tasks, now) {
		title := "taskboard"
		if task.Project != nil && task.Project.Name != "" {
			title = task.Project.Name
		}
		if err := r.notifier.Notify(title, "Task due: "+task.Title); err != nil {
			r.logger.Warn("failed to send notification", "task", task.ID, "error", err)
			continue
		}
		sent++
	}
	return sent
}

// Notified reports whether the task has already been handled.
func (r *Reminder) Notified(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notified[id]
}

// effectiveDue returns when a task goes due. Date-only tasks are due at 09:00
// local time.
func effectiveDue(task *api.Task, loc *time.Location) (time.Time, bool, bool) {
	if task.DueDate == nil {
		return time.Time{}, false, false
	}
	raw := strings.TrimSpace(*task.DueDate)
	t, ok := api.ParseTimestamp(raw, loc)
	if !ok {
		return time.Time{}, false, false
	}
	if !strings.Contains(raw, "T") {
		return time.Date(t.Year(), t.Month(), t.Day(), dayTaskHour, 0, 0, 0, loc), true, true
	}
	return t, false, true
}
