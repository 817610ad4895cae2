package api

import (
	"fmt"
	"net/url"
)

// GetTasks returns all tasks matching the filter, following pagination.
func (c *Client) GetTasks(filter TaskFilter) ([]Task, error) {
	tasks, err := getAllPages[Task](c, "/tasks", buildFilterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task by ID.
func (c *Client) GetTask(id string) (*Task, error) {
	var task Task
	if err := c.Get("/tasks/"+url.PathEscape(id), &task); err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", id, err)
	}
	return &task, nil
}

// CreateTask creates a new task.
func (c *Client) CreateTask(req CreateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Post("/tasks", req, &task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// UpdateTask updates an existing task.
func (c *Client) UpdateTask(id string, req UpdateTaskRequest) (*Task, error) {
	var task Task
	if err := c.Patch("/tasks/"+url.PathEscape(id), req, &task); err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", id, err)
	}
	return &task, nil
}

// SetTaskStatus moves a task to a new status.
func (c *Client) SetTaskStatus(id string, status Status) (*Task, error) {
	return c.UpdateTask(id, UpdateTaskRequest{Status: &status})
}

// SetTaskPriority changes a task's priority.
func (c *Client) SetTaskPriority(id string, priority Priority) (*Task, error) {
	return c.UpdateTask(id, UpdateTaskRequest{Priority: &priority})
}

// AssignTask replaces a task's assignees.
func (c *Client) AssignTask(id string, userIDs []string) (*Task, error) {
	if userIDs == nil {
		userIDs = []string{}
	}
	return c.UpdateTask(id, UpdateTaskRequest{AssigneeIDs: &userIDs})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(id string) error {
	if err := c.Delete("/tasks/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", id, err)
	}
	return nil
}
