package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/snapshot"
)

// reminderInterval is how often due tasks are checked for desktop reminders.
const reminderInterval = time.Minute

// loadSnapshot shows the last stored task list while the first fetch runs.
func (a *App) loadSnapshot() tea.Cmd {
	if a.deps.Snapshots == nil {
		return nil
	}
	scope := snapshot.Scope(a.state.WorkspaceID)
	return func() tea.Msg {
		snap, err := a.deps.Snapshots.Load(a.ctx, scope)
		if err != nil {
			if !errors.Is(err, snapshot.ErrNotFound) {
				a.logger.Warn("failed to load snapshot", "scope", scope, "error", err)
			}
			return nil
		}
		return snapshotLoadedMsg{snap: snap}
	}
}

// fetchTasks loads the task list for the current workspace.
func (a *App) fetchTasks() tea.Cmd {
	ws := a.state.WorkspaceID
	return func() tea.Msg {
		res, err := a.deps.Tasks.Tasks(a.ctx, ws)
		return tasksLoadedMsg{result: res, err: err}
	}
}

func (a *App) fetchProjects() tea.Cmd {
	ws := a.state.WorkspaceID
	return func() tea.Msg {
		projects, err := a.deps.Backend.GetProjects(ws)
		return projectsLoadedMsg{projects: projects, err: err}
	}
}

// fetchInbox loads notifications and invitations concurrently.
func (a *App) fetchInbox() tea.Cmd {
	return func() tea.Msg {
		type noteResult struct {
			data []api.Notification
			err  error
		}
		type invResult struct {
			data []api.Invitation
			err  error
		}

		noteChan := make(chan noteResult, 1)
		invChan := make(chan invResult, 1)

		go func() {
			n, e := a.deps.Backend.GetNotifications(false)
			noteChan <- noteResult{data: n, err: e}
		}()

		go func() {
			i, e := a.deps.Backend.GetPendingInvitations()
			invChan <- invResult{data: i, err: e}
		}()

		nRes := <-noteChan
		iRes := <-invChan
		if nRes.err != nil {
			return inboxLoadedMsg{err: nRes.err}
		}
		if iRes.err != nil {
			// Invitations are optional; keep the notifications.
			a.logger.Warn("failed to load invitations", "error", iRes.err)
		}
		return inboxLoadedMsg{notifications: nRes.data, invitations: iRes.data}
	}
}

// mutate runs fn for task id unless a request for it is already in flight.
func (a *App) mutate(id, verb string, fn func() error) tea.Cmd {
	if a.state.IsPending(id) {
		a.state.SetStatus("Still saving, try again in a moment")
		return nil
	}
	a.state.Pending[id] = true
	return func() tea.Msg {
		return taskMutatedMsg{id: id, verb: verb, err: fn()}
	}
}

func (a *App) setStatus(t *api.Task, status api.Status) tea.Cmd {
	return a.mutate(t.ID, "update", func() error {
		_, err := a.deps.Backend.SetTaskStatus(t.ID, status)
		return err
	})
}

func (a *App) setPriority(t *api.Task, priority api.Priority) tea.Cmd {
	return a.mutate(t.ID, "update", func() error {
		_, err := a.deps.Backend.SetTaskPriority(t.ID, priority)
		return err
	})
}

func (a *App) deleteTask(t *api.Task) tea.Cmd {
	return a.mutate(t.ID, "delete", func() error {
		return a.deps.Backend.DeleteTask(t.ID)
	})
}

func (a *App) createTask(req api.CreateTaskRequest) tea.Cmd {
	return func() tea.Msg {
		_, err := a.deps.Backend.CreateTask(req)
		return taskMutatedMsg{verb: "create", err: err}
	}
}

func (a *App) copyTask(t *api.Task) tea.Cmd {
	text := t.Title
	return func() tea.Msg {
		return copiedMsg{text: text, err: a.deps.Clipboard(text)}
	}
}

// MarkNotificationRead implements views.ViewContext.
func (a *App) MarkNotificationRead(id string) tea.Cmd {
	return func() tea.Msg {
		return notificationReadMsg{id: id, err: a.deps.Backend.MarkNotificationRead(id)}
	}
}

// RespondInvitation implements views.ViewContext.
func (a *App) RespondInvitation(id string, accept bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if accept {
			err = a.deps.Backend.AcceptInvitation(id)
		} else {
			err = a.deps.Backend.DeclineInvitation(id)
		}
		return invitationRespondedMsg{accept: accept, err: err}
	}
}

// openStream connects the live notification stream.
func (a *App) openStream() tea.Cmd {
	if a.deps.Stream == nil {
		return nil
	}
	return func() tea.Msg {
		return streamOpenedMsg{err: a.deps.Stream.Open(a.ctx)}
	}
}

// listen waits for the next stream event.
func (a *App) listen() tea.Cmd {
	stream := a.deps.Stream
	return func() tea.Msg {
		ev, ok := <-stream.Events()
		if !ok {
			return streamEndedMsg{err: stream.Err()}
		}
		return streamEventMsg{event: ev}
	}
}

func reminderTick() tea.Cmd {
	return tea.Tick(reminderInterval, func(t time.Time) tea.Msg {
		return reminderTickMsg(t)
	})
}

// checkReminders sends desktop reminders for tasks that just went due.
func (a *App) checkReminders() tea.Cmd {
	if a.deps.Reminder == nil {
		return nil
	}
	tasks := a.state.Tasks
	now := a.state.Clock()
	return func() tea.Msg {
		return remindersSentMsg{sent: a.deps.Reminder.Check(tasks, now)}
	}
}
