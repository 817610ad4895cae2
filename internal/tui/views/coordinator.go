package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/taskboard/internal/api"
	"github.com/hy4ri/taskboard/internal/tui/state"
)

// Coordinator manages view lifecycle and delegates to the active view.
type Coordinator struct {
	registry    *Registry
	state       *state.State
	currentView ViewHandler
}

// NewCoordinator creates a new view coordinator.
func NewCoordinator(s *state.State, ctx ViewContext) *Coordinator {
	reg := DefaultRegistry(s, ctx)
	c := &Coordinator{
		registry: reg,
		state:    s,
	}

	if view, ok := reg.GetViewForTab(s.CurrentTab); ok {
		c.currentView = view
	}

	return c
}

// GetCurrentView returns the active view.
func (c *Coordinator) GetCurrentView() ViewHandler {
	return c.currentView
}

// SwitchToTab switches to the view for the given tab.
func (c *Coordinator) SwitchToTab(tab state.Tab) tea.Cmd {
	view, ok := c.registry.GetViewForTab(tab)
	if !ok {
		return nil
	}

	if c.currentView != nil {
		c.currentView.OnExit()
	}

	c.currentView = view
	c.state.CurrentTab = tab
	return c.currentView.OnEnter()
}

// HandleAction delegates an action to the current view.
func (c *Coordinator) HandleAction(action state.Action) (tea.Cmd, bool) {
	if c.currentView == nil {
		return nil, false
	}
	return c.currentView.HandleAction(action)
}

// HandleBack delegates back/escape to the current view.
func (c *Coordinator) HandleBack() (tea.Cmd, bool) {
	if c.currentView == nil {
		return nil, false
	}
	return c.currentView.HandleBack()
}

// Selected returns the current view's selected task.
func (c *Coordinator) Selected() *api.Task {
	if c.currentView == nil {
		return nil
	}
	return c.currentView.Selected()
}

// Render renders the current view.
func (c *Coordinator) Render(width, height int) string {
	if c.currentView == nil {
		return ""
	}
	return c.currentView.Render(width, height)
}

// GetTabs returns all registered tabs.
func (c *Coordinator) GetTabs() []TabInfo {
	return c.registry.GetTabs()
}
