package views

import (
	"github.com/hy4ri/taskboard/internal/tui/state"
)

// TabInfo holds metadata for a tab.
type TabInfo struct {
	Tab      state.Tab
	Icon     string
	Name     string
	ViewName string // Maps to ViewHandler.Name()
}

// Registry holds all registered views and tabs.
type Registry struct {
	views map[string]ViewHandler
	tabs  []TabInfo
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		views: make(map[string]ViewHandler),
		tabs:  []TabInfo{},
	}
}

// RegisterView adds a view to the registry.
func (r *Registry) RegisterView(view ViewHandler) {
	r.views[view.Name()] = view
}

// RegisterTab adds a tab with its associated view.
func (r *Registry) RegisterTab(tab state.Tab, icon, name, viewName string) {
	r.tabs = append(r.tabs, TabInfo{
		Tab:      tab,
		Icon:     icon,
		Name:     name,
		ViewName: viewName,
	})
}

// GetView returns a view by name.
func (r *Registry) GetView(name string) (ViewHandler, bool) {
	view, ok := r.views[name]
	return view, ok
}

// GetViewForTab returns the view associated with a tab.
func (r *Registry) GetViewForTab(tab state.Tab) (ViewHandler, bool) {
	for _, t := range r.tabs {
		if t.Tab == tab {
			return r.GetView(t.ViewName)
		}
	}
	return nil, false
}

// GetTabs returns all registered tabs.
func (r *Registry) GetTabs() []TabInfo {
	return r.tabs
}

// DefaultRegistry creates a registry with all standard views and tabs.
func DefaultRegistry(s *state.State, ctx ViewContext) *Registry {
	r := NewRegistry()

	r.RegisterView(NewTodayView(s, ctx))
	r.RegisterView(NewCalendarView(s, ctx))
	r.RegisterView(NewBoardView(s, ctx))
	r.RegisterView(NewTasksView(s, ctx))
	r.RegisterView(NewInboxView(s, ctx))

	r.RegisterTab(state.TabToday, "📅", "Today", "today")
	r.RegisterTab(state.TabCalendar, "🗓️", "Calendar", "calendar")
	r.RegisterTab(state.TabBoard, "📋", "Board", "board")
	r.RegisterTab(state.TabTasks, "☰", "Tasks", "tasks")
	r.RegisterTab(state.TabInbox, "📥", "Inbox", "inbox")

	return r
}
