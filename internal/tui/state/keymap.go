package state

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a resolved key press.
type Action string

const (
	ActionNone       Action = ""
	ActionUp         Action = "up"
	ActionDown       Action = "down"
	ActionLeft       Action = "left"
	ActionRight      Action = "right"
	ActionTop        Action = "top"
	ActionBottom     Action = "bottom"
	ActionHalfUp     Action = "half_up"
	ActionHalfDown   Action = "half_down"
	ActionNextTab    Action = "next_tab"
	ActionPrevTab    Action = "prev_tab"
	ActionSelect     Action = "select"
	ActionBack       Action = "back"
	ActionQuit       Action = "quit"
	ActionHelp       Action = "help"
	ActionRefresh    Action = "refresh"
	ActionAdd        Action = "add"
	ActionNextStatus Action = "next_status"
	ActionPrevStatus Action = "prev_status"
	ActionUrgent     Action = "priority_urgent"
	ActionHigh       Action = "priority_high"
	ActionMedium     Action = "priority_medium"
	ActionLow        Action = "priority_low"
	ActionDelete     Action = "delete"
	ActionCopy       Action = "copy"
	ActionSearch     Action = "search"
	ActionSortField  Action = "sort_field"
	ActionSortDir    Action = "sort_dir"
	ActionFilter     Action = "filter_status"
	ActionBoardSort  Action = "board_sort"
	ActionPrevMonth  Action = "prev_month"
	ActionNextMonth  Action = "next_month"
	ActionGoToday    Action = "go_today"
	ActionToggleView Action = "toggle_view"
	ActionMarkRead   Action = "mark_read"
	ActionAccept     Action = "accept"
	ActionDecline    Action = "decline"
)

// KeyMap holds every binding in the application.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Top      key.Binding
	Bottom   key.Binding
	HalfUp   key.Binding
	HalfDown key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding

	// General
	Select  key.Binding
	Back    key.Binding
	Quit    key.Binding
	Help    key.Binding
	Refresh key.Binding

	// Task actions
	Add        key.Binding
	NextStatus key.Binding
	PrevStatus key.Binding
	Urgent     key.Binding
	High       key.Binding
	Medium     key.Binding
	Low        key.Binding
	Delete     key.Binding
	Copy       key.Binding

	// List view
	Search    key.Binding
	SortField key.Binding
	SortDir   key.Binding
	Filter    key.Binding

	// Board
	BoardSort key.Binding

	// Calendar
	PrevMonth  key.Binding
	NextMonth  key.Binding
	GoToday    key.Binding
	ToggleView key.Binding

	// Inbox
	MarkRead key.Binding
	Accept   key.Binding
	Decline  key.Binding
}

// DefaultKeyMap returns the default Vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Top:      key.NewBinding(key.WithKeys("home"), key.WithHelp("gg", "top")),
		Bottom:   key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		HalfUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		HalfDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),
		NextTab:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous tab")),

		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),

		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		NextStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "next status")),
		PrevStatus: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "previous status")),
		Urgent:     key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "urgent")),
		High:       key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "high")),
		Medium:     key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "medium")),
		Low:        key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "low")),
		Delete:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
		Copy:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),

		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		SortField: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "sort field")),
		SortDir:   key.NewBinding(key.WithKeys("O"), key.WithHelp("O", "sort direction")),
		Filter:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "status filter")),

		BoardSort: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "board sort")),

		PrevMonth:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous month")),
		NextMonth:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next month")),
		GoToday:    key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
		ToggleView: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "compact/expanded")),

		MarkRead: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "mark read")),
		Accept:   key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "accept invite")),
		Decline:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "decline invite")),
	}
}

type binding struct {
	key    key.Binding
	action Action
}

func (k KeyMap) bindings() []binding {
	return []binding{
		{k.Up, ActionUp}, {k.Down, ActionDown}, {k.Left, ActionLeft}, {k.Right, ActionRight},
		{k.Top, ActionTop}, {k.Bottom, ActionBottom}, {k.HalfUp, ActionHalfUp}, {k.HalfDown, ActionHalfDown},
		{k.NextTab, ActionNextTab}, {k.PrevTab, ActionPrevTab},
		{k.Select, ActionSelect}, {k.Back, ActionBack}, {k.Quit, ActionQuit}, {k.Help, ActionHelp},
		{k.Refresh, ActionRefresh},
		{k.Add, ActionAdd}, {k.NextStatus, ActionNextStatus}, {k.PrevStatus, ActionPrevStatus},
		{k.Urgent, ActionUrgent}, {k.High, ActionHigh}, {k.Medium, ActionMedium}, {k.Low, ActionLow},
		{k.Delete, ActionDelete}, {k.Copy, ActionCopy},
		{k.Search, ActionSearch}, {k.SortField, ActionSortField}, {k.SortDir, ActionSortDir}, {k.Filter, ActionFilter},
		{k.BoardSort, ActionBoardSort},
		{k.PrevMonth, ActionPrevMonth}, {k.NextMonth, ActionNextMonth}, {k.GoToday, ActionGoToday},
		{k.ToggleView, ActionToggleView},
		{k.MarkRead, ActionMarkRead}, {k.Accept, ActionAccept}, {k.Decline, ActionDecline},
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextTab, k.Add, k.NextStatus, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Top, k.Bottom, k.NextTab, k.PrevTab},
		{k.Add, k.NextStatus, k.PrevStatus, k.Urgent, k.High, k.Medium, k.Low, k.Delete, k.Copy},
		{k.Search, k.SortField, k.SortDir, k.Filter, k.BoardSort},
		{k.PrevMonth, k.NextMonth, k.GoToday, k.ToggleView},
		{k.MarkRead, k.Accept, k.Decline, k.Refresh, k.Help, k.Quit},
	}
}

// KeyState tracks multi-key sequences (like 'gg').
type KeyState struct {
	WaitingG bool
}

// Resolve maps a key press to an action. The second result is false when the
// key is unbound.
func (ks *KeyState) Resolve(msg tea.KeyMsg, km KeyMap) (Action, bool) {
	if msg.String() == "g" {
		if ks.WaitingG {
			ks.WaitingG = false
			return ActionTop, true
		}
		ks.WaitingG = true
		return ActionNone, true
	}
	ks.WaitingG = false

	for _, b := range km.bindings() {
		if key.Matches(msg, b.key) {
			return b.action, true
		}
	}
	return ActionNone, false
}
