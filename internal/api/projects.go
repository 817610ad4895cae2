package api

import (
	"fmt"
	"net/url"
)

// GetProjects returns all projects, optionally limited to one workspace.
func (c *Client) GetProjects(workspaceID string) ([]Project, error) {
	query := url.Values{}
	if workspaceID != "" {
		query.Set("workspaceId", workspaceID)
	}
	projects, err := getAllPages[Project](c, "/projects", query)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a single project by ID.
func (c *Client) GetProject(id string) (*Project, error) {
	var project Project
	if err := c.Get("/projects/"+url.PathEscape(id), &project); err != nil {
		return nil, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return &project, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(req CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.Post("/projects", req, &project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return &project, nil
}

// UpdateProject updates an existing project.
func (c *Client) UpdateProject(id string, req UpdateProjectRequest) (*Project, error) {
	var project Project
	if err := c.Patch("/projects/"+url.PathEscape(id), req, &project); err != nil {
		return nil, fmt.Errorf("failed to update project %s: %w", id, err)
	}
	return &project, nil
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(id string) error {
	if err := c.Delete("/projects/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}
	return nil
}
