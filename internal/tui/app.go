// Package tui provides the terminal user interface for taskboard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/config"
	"github.com/hy4ri/taskboard/internal/live"
	"github.com/hy4ri/taskboard/internal/notify"
	"github.com/hy4ri/taskboard/internal/projection"
	"github.com/hy4ri/taskboard/internal/snapshot"
	"github.com/hy4ri/taskboard/internal/source"
	"github.com/hy4ri/taskboard/internal/tui/state"
	"github.com/hy4ri/taskboard/internal/tui/styles"
	"github.com/hy4ri/taskboard/internal/tui/ui"
	"github.com/hy4ri/taskboard/internal/tui/views"
)

// Backend is the part of the API client the TUI mutates through.
type Backend interface {
	CreateTask(req api.CreateTaskRequest) (*api.Task, error)
	SetTaskStatus(id string, status api.Status) (*api.Task, error)
	SetTaskPriority(id string, priority api.Priority) (*api.Task, error)
	DeleteTask(id string) error
	GetProjects(workspaceID string) ([]api.Project, error)
	GetNotifications(unreadOnly bool) ([]api.Notification, error)
	MarkNotificationRead(id string) error
	GetPendingInvitations() ([]api.Invitation, error)
	AcceptInvitation(id string) error
	DeclineInvitation(id string) error
	Invalidate()
}

// TaskLoader loads the task list, falling back to a stored snapshot.
type TaskLoader interface {
	Tasks(ctx context.Context, workspaceID string) (*source.Result, error)
}

// SnapshotLoader reads the last stored task list.
type SnapshotLoader interface {
	Load(ctx context.Context, scope string) (*snapshot.Snapshot, error)
}

// EventStream delivers live change notifications.
type EventStream interface {
	Open(ctx context.Context) error
	Events() <-chan live.Event
	Err() error
	Close() error
}

// Deps wires the app to its collaborators. Backend, Tasks and Config are
// required; the rest are optional.
type Deps struct {
	Backend   Backend
	Tasks     TaskLoader
	Snapshots SnapshotLoader
	Stream    EventStream
	Reminder  *notify.Reminder
	Config    *config.Config
	Logger    *slog.Logger
	Now       func() time.Time
	Location  *time.Location
	Clipboard func(string) error
}

// App is the main Bubble Tea model for the application.
type App struct {
	deps   Deps
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	state  *state.State
	coord  *views.Coordinator
	keymap state.KeyMap

	spinner spinner.Model
	input   textinput.Model
	help    help.Model
}

// NewApp creates a new App instance. initialTab overrides ui.default_tab
// when non-empty.
func NewApp(deps Deps, initialTab string) *App {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Clipboard == nil {
		deps.Clipboard = clipboard.WriteAll
	}
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	cfg := deps.Config

	s := state.New(deps.Now, deps.Location)
	s.WorkspaceID = cfg.UI.DefaultWorkspace
	s.Columns = cfg.Columns()
	s.CalendarViewMode = state.ParseCalendarViewMode(cfg.UI.CalendarDefaultView)
	if mode, ok := projection.ParseSortMode(cfg.UI.BoardSort); ok {
		s.BoardSort = mode
	}
	s.Loading = true

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	in := textinput.New()
	in.CharLimit = 500
	in.Width = 50

	h := help.New()
	h.ShowAll = true

	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		deps:    deps,
		logger:  deps.Logger,
		ctx:     ctx,
		cancel:  cancel,
		state:   s,
		keymap:  state.DefaultKeyMap(),
		spinner: sp,
		input:   in,
		help:    h,
	}
	a.coord = views.NewCoordinator(s, a)

	tabName := initialTab
	if tabName == "" {
		tabName = cfg.UI.DefaultTab
	}
	if tab, ok := state.ParseTab(tabName); ok {
		a.coord.SwitchToTab(tab)
	}

	return a
}

// State exposes the model state for tests and embedding.
func (a *App) State() *state.State {
	return a.state
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		a.spinner.Tick,
		a.loadSnapshot(),
		a.fetchTasks(),
		a.fetchProjects(),
		a.fetchInbox(),
		a.openStream(),
	}
	if a.deps.Reminder != nil {
		cmds = append(cmds, reminderTick())
	}
	return tea.Batch(cmds...)
}

// refresh drops cached responses and reloads everything.
func (a *App) refresh() tea.Cmd {
	a.deps.Backend.Invalidate()
	a.state.Loading = true
	return tea.Batch(a.spinner.Tick, a.fetchTasks(), a.fetchProjects(), a.fetchInbox())
}

func (a *App) quit() tea.Cmd {
	a.cancel()
	if a.deps.Stream != nil {
		if err := a.deps.Stream.Close(); err != nil {
			a.logger.Debug("failed to close stream", "error", err)
		}
	}
	return tea.Quit
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case spinner.TickMsg:
		if !a.state.Loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case errMsg:
		a.state.Loading = false
		a.state.SetError(msg.err)
		return a, nil

	case statusMsg:
		a.state.SetStatus(msg.msg)
		return a, nil

	case snapshotLoadedMsg:
		// A fetch that already landed wins over the stored copy.
		if a.state.FetchedAt.IsZero() && msg.snap != nil {
			a.state.SetTasks(msg.snap.Tasks, msg.snap.FetchedAt, true)
		}
		return a, nil

	case tasksLoadedMsg:
		a.state.Loading = false
		if msg.err != nil {
			a.logger.Error("failed to load tasks", "error", msg.err)
			a.state.SetError(msg.err)
			return a, nil
		}
		res := msg.result
		a.state.SetTasks(res.Tasks, res.FetchedAt, res.Stale)
		if res.Stale && res.FetchErr != nil {
			a.state.SetStatus("Showing saved snapshot: " + ui.ErrorText(res.FetchErr))
		}
		return a, nil

	case projectsLoadedMsg:
		if msg.err != nil {
			a.logger.Warn("failed to load projects", "error", msg.err)
			return a, nil
		}
		a.state.Projects = msg.projects
		return a, nil

	case inboxLoadedMsg:
		if msg.err != nil {
			a.logger.Warn("failed to load inbox", "error", msg.err)
			return a, nil
		}
		a.state.Notifications = msg.notifications
		a.state.Invitations = msg.invitations
		a.state.InboxCursor = state.ClampCursor(a.state.InboxCursor, len(msg.invitations)+len(msg.notifications))
		return a, nil

	case taskMutatedMsg:
		if msg.id != "" {
			delete(a.state.Pending, msg.id)
		}
		if msg.err != nil {
			a.state.SetError(fmt.Errorf("failed to %s task: %w", msg.verb, msg.err))
			return a, nil
		}
		a.state.SetStatus(mutationStatus(msg.verb))
		a.deps.Backend.Invalidate()
		return a, a.fetchTasks()

	case notificationReadMsg:
		if msg.err != nil {
			a.state.SetError(fmt.Errorf("failed to mark notification read: %w", msg.err))
			return a, nil
		}
		for i := range a.state.Notifications {
			if a.state.Notifications[i].ID == msg.id {
				a.state.Notifications[i].IsRead = true
			}
		}
		return a, nil

	case invitationRespondedMsg:
		if msg.err != nil {
			a.state.SetError(fmt.Errorf("failed to respond to invitation: %w", msg.err))
			return a, nil
		}
		if msg.accept {
			a.state.SetStatus("Invitation accepted")
		} else {
			a.state.SetStatus("Invitation declined")
		}
		a.deps.Backend.Invalidate()
		return a, tea.Batch(a.fetchInbox(), a.fetchTasks(), a.fetchProjects())

	case copiedMsg:
		if msg.err != nil {
			a.state.SetError(fmt.Errorf("failed to copy: %w", msg.err))
			return a, nil
		}
		a.state.SetStatus("Copied: " + msg.text)
		return a, nil

	case streamOpenedMsg:
		if msg.err != nil {
			a.logger.Warn("live updates unavailable", "error", msg.err)
			return a, nil
		}
		a.state.LiveConnected = true
		return a, a.listen()

	case streamEventMsg:
		a.logger.Debug("stream event", "type", msg.event.Type, "id", msg.event.ID)
		a.deps.Backend.Invalidate()
		return a, tea.Batch(a.fetchTasks(), a.fetchInbox(), a.listen())

	case streamEndedMsg:
		a.state.LiveConnected = false
		if msg.err != nil && !errors.Is(msg.err, live.ErrClosed) {
			a.logger.Warn("live updates stopped", "error", msg.err)
		}
		return a, nil

	case reminderTickMsg:
		return a, tea.Batch(a.checkReminders(), reminderTick())

	case remindersSentMsg:
		if msg.sent > 0 {
			a.logger.Info("sent reminders", "count", msg.sent)
		}
		return a, nil
	}

	return a, nil
}

func mutationStatus(verb string) string {
	switch verb {
	case "create":
		return "Task added"
	case "delete":
		return "Task deleted"
	default:
		return "Task updated"
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a, a.quit()
	}
	if a.state.ConfirmDelete != nil {
		return a, a.handleConfirm(msg)
	}
	if a.state.Input != state.InputNone {
		return a, a.handleInput(msg)
	}

	action, ok := a.state.KeyState.Resolve(msg, a.keymap)
	if !ok || action == state.ActionNone {
		return a, nil
	}

	if a.state.ShowHelp {
		if action == state.ActionHelp || action == state.ActionBack || action == state.ActionQuit {
			a.state.ShowHelp = false
		}
		return a, nil
	}

	switch action {
	case state.ActionQuit:
		return a, a.quit()
	case state.ActionHelp:
		a.state.ShowHelp = true
		return a, nil
	case state.ActionNextTab:
		return a, a.coord.SwitchToTab(a.state.CurrentTab.Next())
	case state.ActionPrevTab:
		return a, a.coord.SwitchToTab(a.state.CurrentTab.Prev())
	case state.ActionRefresh:
		return a, a.refresh()
	case state.ActionBack:
		if cmd, consumed := a.coord.HandleBack(); consumed {
			return a, cmd
		}
		a.state.SetStatus("")
		return a, nil
	case state.ActionAdd:
		a.startInput(state.InputQuickAdd, "Task title", "")
		return a, textinput.Blink
	case state.ActionSearch:
		cmd := a.coord.SwitchToTab(state.TabTasks)
		a.startInput(state.InputSearch, "Search tasks", a.state.ListQuery.Search)
		return a, tea.Batch(cmd, textinput.Blink)
	}

	if cmd, handled := a.handleTaskAction(action); handled {
		return a, cmd
	}

	cmd, _ := a.coord.HandleAction(action)
	return a, cmd
}

// handleTaskAction applies actions that target the selected task.
func (a *App) handleTaskAction(action state.Action) (tea.Cmd, bool) {
	switch action {
	case state.ActionNextStatus, state.ActionPrevStatus,
		state.ActionUrgent, state.ActionHigh, state.ActionMedium, state.ActionLow,
		state.ActionDelete, state.ActionCopy:
	default:
		return nil, false
	}

	t := a.coord.Selected()
	if t == nil {
		return nil, true
	}

	switch action {
	case state.ActionNextStatus:
		return a.setStatus(t, t.Status.Next()), true
	case state.ActionPrevStatus:
		return a.setStatus(t, t.Status.Prev()), true
	case state.ActionUrgent:
		return a.setPriority(t, api.PriorityUrgent), true
	case state.ActionHigh:
		return a.setPriority(t, api.PriorityHigh), true
	case state.ActionMedium:
		return a.setPriority(t, api.PriorityMedium), true
	case state.ActionLow:
		return a.setPriority(t, api.PriorityLow), true
	case state.ActionDelete:
		a.state.ConfirmDelete = t
		return nil, true
	default:
		return a.copyTask(t), true
	}
}

func (a *App) handleConfirm(msg tea.KeyMsg) tea.Cmd {
	t := a.state.ConfirmDelete
	switch msg.String() {
	case "y", "Y", "enter":
		a.state.ConfirmDelete = nil
		return a.deleteTask(t)
	case "n", "N", "esc", "q":
		a.state.ConfirmDelete = nil
	}
	return nil
}

func (a *App) startInput(mode state.InputMode, placeholder, value string) {
	a.state.Input = mode
	a.input.Placeholder = placeholder
	a.input.SetValue(value)
	a.input.CursorEnd()
	a.input.Focus()
}

func (a *App) stopInput() {
	a.state.Input = state.InputNone
	a.input.Blur()
	a.input.SetValue("")
}

func (a *App) handleInput(msg tea.KeyMsg) tea.Cmd {
	mode := a.state.Input
	switch msg.Type {
	case tea.KeyEsc:
		if mode == state.InputSearch {
			a.state.ListQuery.Search = ""
		}
		a.stopInput()
		return nil
	case tea.KeyEnter:
		value := strings.TrimSpace(a.input.Value())
		a.stopInput()
		if mode == state.InputQuickAdd {
			return a.submitQuickAdd(value)
		}
		a.state.ListQuery.Search = value
		return nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if mode == state.InputSearch {
		a.state.ListQuery.Search = a.input.Value()
		a.state.Cursor = 0
	}
	return cmd
}

// submitQuickAdd creates a task in the selected task's project, or the first
// project. On the calendar the selected day becomes the due date.
func (a *App) submitQuickAdd(title string) tea.Cmd {
	if title == "" {
		return nil
	}

	projectID := ""
	if t := a.coord.Selected(); t != nil {
		projectID = t.ProjectID()
	}
	if projectID == "" && len(a.state.Projects) > 0 {
		projectID = a.state.Projects[0].ID
	}
	if projectID == "" {
		a.state.SetError(errors.New("no project to add the task to"))
		return nil
	}

	req := api.CreateTaskRequest{Title: title, ProjectID: projectID}
	if a.state.CurrentTab == state.TabCalendar {
		req.DueDate = projection.DateKey(a.state.CalendarDay)
	}
	a.state.SetStatus("Adding task…")
	return a.createTask(req)
}

// View implements tea.Model.
func (a *App) View() string {
	s := a.state
	if s.Width == 0 {
		return "Loading..."
	}

	unread := views.Unread(s)
	var tabs []ui.TabInfo
	for _, t := range a.coord.GetTabs() {
		info := ui.TabInfo{Tab: t.Tab, Icon: t.Icon, Name: t.Name}
		if t.Tab == state.TabInbox {
			info.Badge = unread
		}
		tabs = append(tabs, info)
	}
	header := ui.TabBar(tabs, s.CurrentTab, s.Width)

	footer := ui.StatusBar(ui.StatusInfo{
		Loading:   s.Loading,
		Spinner:   a.spinner.View(),
		Err:       s.Err,
		Message:   s.StatusMsg,
		Stale:     s.Stale,
		FetchedAt: s.FetchedAt,
		Now:       s.Clock(),
		Live:      s.LiveConnected,
		Count:     len(s.Tasks),
	}, s.Width)

	var overlay string
	switch {
	case s.ConfirmDelete != nil:
		overlay = ui.ConfirmDelete(s.ConfirmDelete, s.Width)
	case s.Input == state.InputQuickAdd:
		label := "Add task"
		if s.CurrentTab == state.TabCalendar {
			label += " due " + s.CalendarDay.Format("Jan 2")
		}
		overlay = ui.InputBox(label, a.input.View(), s.Width)
	case s.Input == state.InputSearch:
		overlay = ui.InputBox("Search", a.input.View(), s.Width)
	}

	bodyHeight := s.Height - lipgloss.Height(header) - lipgloss.Height(footer)
	if overlay != "" {
		bodyHeight -= lipgloss.Height(overlay)
	}
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	var body string
	if s.ShowHelp {
		body = a.help.View(a.keymap)
	} else {
		body = a.coord.Render(s.Width-2, bodyHeight)
	}
	body = styles.App.Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	parts := []string{header, body}
	if overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
