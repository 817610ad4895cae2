// Package views implements the TUI tabs. Each tab is a ViewHandler that reads
// and mutates the shared state and renders itself.
package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/tui/state"
)

// ViewHandler defines the contract for a TUI view.
type ViewHandler interface {
	// Name returns the view identifier.
	Name() string

	// HandleAction processes a resolved key press for this view.
	// Returns the command to execute and whether the action was consumed.
	HandleAction(action state.Action) (cmd tea.Cmd, consumed bool)

	// HandleBack processes Escape for this view.
	HandleBack() (cmd tea.Cmd, consumed bool)

	// OnEnter is called when switching to this view.
	OnEnter() tea.Cmd

	// OnExit is called when leaving this view.
	OnExit()

	// Selected returns the task under the cursor, if any. Task actions
	// (status, priority, delete, copy) apply to it.
	Selected() *api.Task

	// Render returns the view's content.
	Render(width, height int) string
}

// ViewContext gives views access to operations owned by the app model.
type ViewContext interface {
	// MarkNotificationRead marks one notification as read.
	MarkNotificationRead(id string) tea.Cmd

	// RespondInvitation accepts or declines a pending invitation.
	RespondInvitation(id string, accept bool) tea.Cmd
}
