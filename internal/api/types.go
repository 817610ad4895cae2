// Package api provides a client for the taskboard collaboration REST API.
package api

import (
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusInReview   Status = "IN_REVIEW"
	StatusBlocked    Status = "BLOCKED"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusInReview,
	StatusBlocked,
	StatusCompleted,
	StatusCancelled,
}

// Label returns a human-readable status name.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusInReview:
		return "In review"
	case StatusBlocked:
		return "Blocked"
	case StatusCompleted:
		return "Completed"
	case StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// IsClosed reports whether no further work is expected on the task.
func (s Status) IsClosed() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Next returns the following status in the workflow, wrapping around.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusTodo
}

// Prev returns the preceding status in the workflow, wrapping around.
func (s Status) Prev() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+len(Statuses)-1)%len(Statuses)]
		}
	}
	return StatusTodo
}

// Priority is the urgency of a task.
type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}

// Rank returns the fixed sort rank of the priority (0 = most urgent).
// Unknown priorities rank after LOW.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// UserRef is a lightweight reference to a user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ProjectRef is a lightweight reference to a project embedded in a task.
type ProjectRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WorkspaceID string `json:"workspaceId,omitempty"`
}

// WorkspaceRef is a lightweight reference to a workspace embedded in a task.
type WorkspaceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskCounts holds related-object counters for a task.
type TaskCounts struct {
	Comments int `json:"comments"`
	Subtasks int `json:"subtasks"`
	Files    int `json:"files"`
}

// Task is the atomic unit of work. Every projection in the repo operates on
// this one type.
type Task struct {
	ID             string        `json:"id"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Status         Status        `json:"status"`
	Priority       Priority      `json:"priority"`
	DueDate        *string       `json:"dueDate"`
	StartDate      *string       `json:"startDate"`
	EstimatedHours *float64      `json:"estimatedHours"`
	ActualHours    *float64      `json:"actualHours"`
	Assignees      []UserRef     `json:"assignees"`
	Project        *ProjectRef   `json:"project"`
	Workspace      *WorkspaceRef `json:"workspace"`
	Counts         TaskCounts    `json:"_count"`
	Labels         []string      `json:"labels"`
	CreatedAt      string        `json:"createdAt"`
	UpdatedAt      string        `json:"updatedAt"`
}

// WorkspaceID returns the id of the workspace the task belongs to, looking at
// the embedded workspace first and the project second.
func (t *Task) WorkspaceID() string {
	if t.Workspace != nil && t.Workspace.ID != "" {
		return t.Workspace.ID
	}
	if t.Project != nil {
		return t.Project.WorkspaceID
	}
	return ""
}

// WorkspaceName returns the embedded workspace name, if any.
func (t *Task) WorkspaceName() string {
	if t.Workspace != nil {
		return t.Workspace.Name
	}
	return ""
}

// ProjectID returns the embedded project id, if any.
func (t *Task) ProjectID() string {
	if t.Project != nil {
		return t.Project.ID
	}
	return ""
}

// AssigneeNames returns the comma-separated assignee names.
func (t *Task) AssigneeNames() string {
	names := make([]string, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// Due parses the task's due date. ok is false when the task has no due date
// or the value cannot be parsed.
func (t *Task) Due(loc *time.Location) (time.Time, bool) {
	if t.DueDate == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*t.DueDate, loc)
}

// Updated parses the task's last-update timestamp.
func (t *Task) Updated(loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.UpdatedAt, loc)
}

// Created parses the task's creation timestamp.
func (t *Task) Created(loc *time.Location) (time.Time, bool) {
	return ParseTimestamp(t.CreatedAt, loc)
}

// DateOnlyHour is the local hour a date-only value is placed at. Midnight
// does not exist on days where DST starts at 00:00, noon always does.
const DateOnlyHour = 12

const dateOnlyLayout = "2006-01-02"

// timestampLayouts are tried in order. Layouts without a zone are interpreted
// in the caller's location.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an ISO-8601 date or date-time string and converts it
// to loc. Date-only values keep their calendar date and land at
// DateOnlyHour in loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.Parse(dateOnlyLayout, s); err == nil {
		return time.Date(d.Year(), d.Month(), d.Day(), DateOnlyHour, 0, 0, 0, loc), true
	}
	for _, layout := range timestampLayouts {
		parsed, err := time.ParseInLocation(layout, s, loc)
		if err == nil {
			return parsed.In(loc), true
		}
	}
	return time.Time{}, false
}

// Workspace is the top-level tenant grouping members and projects.
type Workspace struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	OwnerID     string `json:"ownerId"`
	CreatedAt   string `json:"createdAt"`
	Counts      struct {
		Members  int `json:"members"`
		Projects int `json:"projects"`
	} `json:"_count"`
}

// Member is a user's membership in a workspace.
type Member struct {
	ID       string  `json:"id"`
	Role     string  `json:"role"`
	User     UserRef `json:"user"`
	JoinedAt string  `json:"joinedAt"`
}

// Project is a container of tasks within a workspace.
type Project struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	Color       string  `json:"color"`
	WorkspaceID string  `json:"workspaceId"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Progress    int     `json:"progress"`
	CreatedAt   string  `json:"createdAt"`
}

// Label is a named tag that can be attached to tasks.
type Label struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	WorkspaceID string `json:"workspaceId"`
}

// Notification is an in-app notification for the current user.
type Notification struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Message   string  `json:"message"`
	IsRead    bool    `json:"isRead"`
	TaskID    *string `json:"taskId"`
	ProjectID *string `json:"projectId"`
	CreatedAt string  `json:"createdAt"`
}

// Activity is one entry in a workspace activity feed.
type Activity struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Action     string  `json:"action"`
	EntityType string  `json:"entityType"`
	EntityID   string  `json:"entityId"`
	Details    string  `json:"details"`
	User       UserRef `json:"user"`
	CreatedAt  string  `json:"createdAt"`
}

// Invitation is a pending invitation to join a workspace.
type Invitation struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Role      string       `json:"role"`
	Status    string       `json:"status"`
	Workspace WorkspaceRef `json:"workspace"`
	InvitedBy UserRef      `json:"invitedBy"`
	ExpiresAt string       `json:"expiresAt"`
	CreatedAt string       `json:"createdAt"`
}

// File is an uploaded file in workspace storage.
type File struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	MimeType   string  `json:"mimeType"`
	Size       int64   `json:"size"`
	URL        string  `json:"url"`
	TaskID     *string `json:"taskId"`
	UploadedBy UserRef `json:"uploadedBy"`
	CreatedAt  string  `json:"createdAt"`
}

// StorageUsage summarises a workspace's storage consumption.
type StorageUsage struct {
	UsedBytes  int64 `json:"usedBytes"`
	LimitBytes int64 `json:"limitBytes"`
	FileCount  int   `json:"fileCount"`
}

// PaginatedResponse is the list envelope used by paged endpoints.
type PaginatedResponse[T any] struct {
	Results    []T     `json:"results"`
	NextCursor *string `json:"nextCursor"`
}

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title          string   `json:"title" validate:"required,max=500"`
	Description    string   `json:"description,omitempty" validate:"max=10000"`
	ProjectID      string   `json:"projectId" validate:"required"`
	Status         Status   `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS IN_REVIEW BLOCKED COMPLETED CANCELLED"`
	Priority       Priority `json:"priority,omitempty" validate:"omitempty,oneof=URGENT HIGH MEDIUM LOW"`
	DueDate        string   `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02|datetime=2006-01-02T15:04:05Z07:00"`
	StartDate      string   `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02|datetime=2006-01-02T15:04:05Z07:00"`
	EstimatedHours *float64 `json:"estimatedHours,omitempty" validate:"omitempty,gte=0,lte=1000"`
	AssigneeIDs    []string `json:"assigneeIds,omitempty" validate:"dive,required"`
	Labels         []string `json:"labels,omitempty"`
}

// UpdateTaskRequest is the request body for updating a task. Nil fields are
// left unchanged.
type UpdateTaskRequest struct {
	Title          *string   `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description    *string   `json:"description,omitempty" validate:"omitempty,max=10000"`
	Status         *Status   `json:"status,omitempty" validate:"omitempty,oneof=TODO IN_PROGRESS IN_REVIEW BLOCKED COMPLETED CANCELLED"`
	Priority       *Priority `json:"priority,omitempty" validate:"omitempty,oneof=URGENT HIGH MEDIUM LOW"`
	DueDate        *string   `json:"dueDate,omitempty"`
	StartDate      *string   `json:"startDate,omitempty"`
	EstimatedHours *float64  `json:"estimatedHours,omitempty" validate:"omitempty,gte=0,lte=1000"`
	AssigneeIDs    *[]string `json:"assigneeIds,omitempty" validate:"omitempty,dive,required"`
}

// CreateWorkspaceRequest is the request body for creating a workspace.
type CreateWorkspaceRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty" validate:"max=1000"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description,omitempty" validate:"max=5000"`
	WorkspaceID string `json:"workspaceId" validate:"required"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=PLANNING ACTIVE ON_HOLD COMPLETED CANCELLED"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// CreateLabelRequest is the request body for creating a label.
type CreateLabelRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Color       string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	WorkspaceID string `json:"workspaceId" validate:"required"`
}

// TaskFilter contains optional server-side filters for listing tasks.
type TaskFilter struct {
	WorkspaceID string
	ProjectID   string
	Status      Status
	AssigneeID  string
}
