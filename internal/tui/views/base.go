package views

import (
	"github.com/hy4ri/taskboard/internal/tui/state"
)

// BaseView provides common functionality for all views.
// Views embed this struct to get shared helpers.
type BaseView struct {
	State *state.State
	Ctx   ViewContext
}

// NewBaseView creates a new BaseView.
func NewBaseView(s *state.State, ctx ViewContext) *BaseView {
	return &BaseView{State: s, Ctx: ctx}
}

// halfPage is how far ctrl+u / ctrl+d move.
func (b *BaseView) halfPage() int {
	if b.State.Height <= 8 {
		return 3
	}
	return (b.State.Height - 6) / 2
}

// moveCursor applies a navigation action to cursor over n items. It reports
// false for non-navigation actions.
func (b *BaseView) moveCursor(cursor *int, n int, action state.Action) bool {
	switch action {
	case state.ActionUp:
		*cursor--
	case state.ActionDown:
		*cursor++
	case state.ActionTop:
		*cursor = 0
	case state.ActionBottom:
		*cursor = n - 1
	case state.ActionHalfUp:
		*cursor -= b.halfPage()
	case state.ActionHalfDown:
		*cursor += b.halfPage()
	default:
		return false
	}
	*cursor = state.ClampCursor(*cursor, n)
	return true
}

// SetStatus sets a status message.
func (b *BaseView) SetStatus(msg string) {
	b.State.SetStatus(msg)
}
