// Package styles provides Lip Gloss styles for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/taskboard/internal/api"
)

// Terminal-adaptive colors that work in both light and dark terminals.
var (
	// Subtle is a muted color for secondary text
	Subtle = lipgloss.AdaptiveColor{Light: "#666666", Dark: "#999999"}

	// Highlight is the accent color for selected items
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	ErrorColor   = lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF6666"}
	SuccessColor = lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#66FF66"}
	WarningColor = lipgloss.AdaptiveColor{Light: "#FFAA00", Dark: "#FFCC66"}

	selectedBackground = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#2A2A2A"}
	barBackground      = lipgloss.AdaptiveColor{Light: "#E8E8E8", Dark: "#1F1F1F"}
)

// Priority colors
var (
	UrgentColor = lipgloss.Color("#D0473D")
	HighColor   = lipgloss.Color("#EA8811")
	MediumColor = lipgloss.Color("#296FDF")
)

// Base styles
var (
	App = lipgloss.NewStyle().
		Padding(0, 1)

	Subtitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Subtle)

	Faint = lipgloss.NewStyle().
		Foreground(Subtle).
		Faint(true)
)

// Task styles
var (
	TaskItem = lipgloss.NewStyle().
			PaddingLeft(2)

	TaskSelected = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeftForeground(Highlight).
			Bold(true).
			Background(selectedBackground)

	TaskClosed = lipgloss.NewStyle().
			PaddingLeft(2).
			Faint(true).
			Strikethrough(true)

	// TaskPending marks a task with a mutation in flight.
	TaskPending = lipgloss.NewStyle().
			PaddingLeft(2).
			Italic(true).
			Foreground(Subtle)

	TaskDue = lipgloss.NewStyle().
		Foreground(Subtle).
		PaddingLeft(1)

	TaskDueOverdue = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(1)

	TaskDueToday = lipgloss.NewStyle().
			Foreground(SuccessColor).
			PaddingLeft(1)

	TaskMeta = lipgloss.NewStyle().
			Foreground(Subtle).
			PaddingLeft(1)
)

var (
	priorityUrgent = lipgloss.NewStyle().Foreground(UrgentColor).Bold(true)
	priorityHigh   = lipgloss.NewStyle().Foreground(HighColor)
	priorityMedium = lipgloss.NewStyle().Foreground(MediumColor)
	priorityLow    = lipgloss.NewStyle()
)

// PriorityStyle returns the style for a task priority.
func PriorityStyle(p api.Priority) lipgloss.Style {
	switch p {
	case api.PriorityUrgent:
		return priorityUrgent
	case api.PriorityHigh:
		return priorityHigh
	case api.PriorityMedium:
		return priorityMedium
	default:
		return priorityLow
	}
}

var (
	statusOpen     = lipgloss.NewStyle().Foreground(Subtle)
	statusActive   = lipgloss.NewStyle().Foreground(MediumColor)
	statusReview   = lipgloss.NewStyle().Foreground(WarningColor)
	statusBlocked  = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	statusDone     = lipgloss.NewStyle().Foreground(SuccessColor)
	statusInactive = lipgloss.NewStyle().Faint(true)
)

// StatusStyle returns the badge style for a task status.
func StatusStyle(s api.Status) lipgloss.Style {
	switch s {
	case api.StatusInProgress:
		return statusActive
	case api.StatusInReview:
		return statusReview
	case api.StatusBlocked:
		return statusBlocked
	case api.StatusCompleted:
		return statusDone
	case api.StatusCancelled:
		return statusInactive
	default:
		return statusOpen
	}
}

// StatusBar styles
var (
	StatusBar = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#DDDDDD"}).
			Background(barBackground).
			Padding(0, 1)

	StatusBarKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			Background(barBackground)

	StatusBarText = lipgloss.NewStyle().
			Foreground(Subtle).
			Background(barBackground)

	StatusBarError = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Background(barBackground).
			Bold(true)

	StatusBarSuccess = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Background(barBackground).
				Bold(true)

	// StatusBarStale flags data served from the snapshot store.
	StatusBarStale = lipgloss.NewStyle().
			Foreground(WarningColor).
			Background(barBackground).
			Bold(true)
)

// InputFocused frames the quick-add and search prompts.
var InputFocused = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(Highlight).
	Padding(0, 1)

// Dialog styles
var (
	Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Highlight).
		Padding(1, 2)

	DialogTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight).
			MarginBottom(1)
)

var Spinner = lipgloss.NewStyle().
	Foreground(Highlight)

// SectionHeader has no margins so each header stays one line.
var SectionHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(Subtle).
	Underline(true)

// Calendar styles
var (
	CalendarHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight)

	CalendarWeekday = lipgloss.NewStyle().
			Foreground(Subtle)

	CalendarDay = lipgloss.NewStyle()

	CalendarDaySelected = lipgloss.NewStyle().
				Bold(true).
				Background(Highlight).
				Foreground(lipgloss.Color("#ffffff"))

	CalendarDayToday = lipgloss.NewStyle().
				Bold(true).
				Foreground(SuccessColor)

	CalendarDayWithTasks = lipgloss.NewStyle().
				Foreground(WarningColor)

	// CalendarDayOverloaded marks days whose planned hours exceed capacity.
	CalendarDayOverloaded = lipgloss.NewStyle().
				Foreground(ErrorColor)

	CalendarDayOtherMonth = lipgloss.NewStyle().
				Faint(true)

	CalendarCellBorder = lipgloss.NewStyle().
				Foreground(Subtle)

	CalendarMoreTasks = lipgloss.NewStyle().
				Foreground(Subtle).
				Italic(true)
)

// Board styles
var (
	Column = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Subtle).
		Padding(0, 1)

	ColumnFocused = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	// ColumnBottleneck outlines a column flagged as a bottleneck.
	ColumnBottleneck = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(ErrorColor).
				Padding(0, 1)

	ColumnTitle = lipgloss.NewStyle().
			Bold(true)

	ColumnStats = lipgloss.NewStyle().
			Foreground(Subtle)

	BottleneckBadge = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)
)

// Tab bar styles
var (
	TabBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Subtle).
		PaddingLeft(1).
		PaddingRight(1)

	Tab = lipgloss.NewStyle().
		Padding(0, 2).
		Foreground(Subtle)

	TabActive = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(Highlight)

	// TabBadge shows unread counts next to a tab name.
	TabBadge = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// Scroll indicator styles
var (
	ScrollIndicatorUp = lipgloss.NewStyle().
				Foreground(Subtle).
				Italic(true).
				PaddingLeft(2)

	ScrollIndicatorDown = lipgloss.NewStyle().
				Foreground(Subtle).
				Italic(true).
				PaddingLeft(2)
)

// Help styles
var (
	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(Highlight)

	HelpDesc = lipgloss.NewStyle().
			Foreground(Subtle)
)
