package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
	"github.com/hy4ri/taskboard/internal/tui/utils"
)

// InboxView lists pending workspace invitations followed by notifications.
type InboxView struct {
	*BaseView
}

// NewInboxView creates a new InboxView.
func NewInboxView(s *state.State, ctx ViewContext) *InboxView {
	return &InboxView{BaseView: NewBaseView(s, ctx)}
}

// Name returns the view identifier.
func (v *InboxView) Name() string {
	return "inbox"
}

// OnEnter is called when switching to this view.
func (v *InboxView) OnEnter() tea.Cmd {
	v.State.InboxCursor = state.ClampCursor(v.State.InboxCursor, v.count())
	return nil
}

// OnExit is called when leaving this view.
func (v *InboxView) OnExit() {}

func (v *InboxView) count() int {
	return len(v.State.Invitations) + len(v.State.Notifications)
}

// at resolves the cursor to an invitation or a notification.
func (v *InboxView) at(cursor int) (*api.Invitation, *api.Notification) {
	if cursor < 0 {
		return nil, nil
	}
	if cursor < len(v.State.Invitations) {
		return &v.State.Invitations[cursor], nil
	}
	cursor -= len(v.State.Invitations)
	if cursor < len(v.State.Notifications) {
		return nil, &v.State.Notifications[cursor]
	}
	return nil, nil
}

// HandleAction handles navigation, mark-read and invitation responses.
func (v *InboxView) HandleAction(action state.Action) (tea.Cmd, bool) {
	inv, note := v.at(v.State.InboxCursor)
	switch action {
	case state.ActionMarkRead, state.ActionSelect:
		if note == nil || note.IsRead {
			return nil, true
		}
		return v.Ctx.MarkNotificationRead(note.ID), true
	case state.ActionAccept, state.ActionDecline:
		if inv == nil {
			return nil, true
		}
		return v.Ctx.RespondInvitation(inv.ID, action == state.ActionAccept), true
	default:
		return nil, v.moveCursor(&v.State.InboxCursor, v.count(), action)
	}
}

// HandleBack processes Escape for this view.
func (v *InboxView) HandleBack() (tea.Cmd, bool) {
	return nil, false
}

// Selected returns the task a notification points at, if it is loaded.
func (v *InboxView) Selected() *api.Task {
	_, note := v.at(v.State.InboxCursor)
	if note == nil || note.TaskID == nil {
		return nil
	}
	for i := range v.State.Tasks {
		if v.State.Tasks[i].ID == *note.TaskID {
			t := v.State.Tasks[i]
			return &t
		}
	}
	return nil
}

// Unread counts unread notifications plus pending invitations.
func Unread(s *state.State) int {
	n := len(s.Invitations)
	for _, note := range s.Notifications {
		if !note.IsRead {
			n++
		}
	}
	return n
}

// Render returns the view's content.
func (v *InboxView) Render(width, height int) string {
	if v.count() == 0 {
		return ui.Empty("Inbox zero")
	}

	cursor := state.ClampCursor(v.State.InboxCursor, v.count())
	var rows []ui.Row
	focus := 0
	line := func(idx int, text string, faint bool) {
		prefix := "  "
		if idx == cursor {
			prefix = "> "
			focus = len(rows)
		}
		text = utils.TruncateString(text, width-4)
		switch {
		case idx == cursor:
			rows = append(rows, ui.Row{Text: styles.TaskSelected.Render(prefix + text)})
		case faint:
			rows = append(rows, ui.Row{Text: styles.TaskClosed.Render(prefix + text)})
		default:
			rows = append(rows, ui.Row{Text: styles.TaskItem.Render(prefix + text)})
		}
	}

	idx := 0
	if len(v.State.Invitations) > 0 {
		rows = append(rows, ui.Row{Text: styles.SectionHeader.Render(fmt.Sprintf("Invitations (%d)", len(v.State.Invitations)))})
		for _, inv := range v.State.Invitations {
			text := fmt.Sprintf("%s invited you to %s as %s", inv.InvitedBy.Name, inv.Workspace.Name, strings.ToLower(inv.Role))
			line(idx, text, false)
			idx++
		}
	}
	if len(v.State.Notifications) > 0 {
		rows = append(rows, ui.Row{Text: styles.SectionHeader.Render(fmt.Sprintf("Notifications (%d)", len(v.State.Notifications)))})
		for _, note := range v.State.Notifications {
			marker := "● "
			if note.IsRead {
				marker = "  "
			}
			text := marker + note.Title
			if note.Message != "" {
				text += ": " + note.Message
			}
			line(idx, text, note.IsRead)
			idx++
		}
	}

	return ui.ScrollRows(rows, focus, height)
}
