package tui

import (
	"time"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/live"
	"github.com/hy4ri/taskboard/internal/snapshot"
	"github.com/hy4ri/taskboard/internal/source"
)

// Message types
type errMsg struct{ err error }
type statusMsg struct{ msg string }

type snapshotLoadedMsg struct{ snap *snapshot.Snapshot }

type tasksLoadedMsg struct {
	result *source.Result
	err    error
}

type projectsLoadedMsg struct {
	projects []api.Project
	err      error
}

type inboxLoadedMsg struct {
	notifications []api.Notification
	invitations   []api.Invitation
	err           error
}

// taskMutatedMsg reports the end of a status, priority, create or delete
// request. id is empty for creates.
type taskMutatedMsg struct {
	id   string
	verb string
	err  error
}

type notificationReadMsg struct {
	id  string
	err error
}

type invitationRespondedMsg struct {
	accept bool
	err    error
}

type copiedMsg struct {
	text string
	err  error
}

type streamOpenedMsg struct{ err error }
type streamEventMsg struct{ event live.Event }
type streamEndedMsg struct{ err error }

type reminderTickMsg time.Time
type remindersSentMsg struct{ sent int }
