package api

import (
	"fmt"
	"net/url"
)

// GetWorkspaces returns every workspace the user belongs to.
func (c *Client) GetWorkspaces() ([]Workspace, error) {
	var workspaces []Workspace
	if err := c.Get("/workspaces", &workspaces); err != nil {
		return nil, fmt.Errorf("failed to get workspaces: %w", err)
	}
	return workspaces, nil
}

// GetWorkspace returns a single workspace by ID.
func (c *Client) GetWorkspace(id string) (*Workspace, error) {
	var ws Workspace
	if err := c.Get("/workspaces/"+url.PathEscape(id), &ws); err != nil {
		return nil, fmt.Errorf("failed to get workspace %s: %w", id, err)
	}
	return &ws, nil
}

// CreateWorkspace creates a new workspace owned by the current user.
func (c *Client) CreateWorkspace(req CreateWorkspaceRequest) (*Workspace, error) {
	var ws Workspace
	if err := c.Post("/workspaces", req, &ws); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &ws, nil
}

// GetWorkspaceMembers returns the members of a workspace.
func (c *Client) GetWorkspaceMembers(id string) ([]Member, error) {
	var members []Member
	if err := c.Get("/workspaces/"+url.PathEscape(id)+"/members", &members); err != nil {
		return nil, fmt.Errorf("failed to get members for workspace %s: %w", id, err)
	}
	return members, nil
}
