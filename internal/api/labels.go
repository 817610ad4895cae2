package api

import (
	"fmt"
	"net/url"
)

// GetLabels returns the labels defined in a workspace.
func (c *Client) GetLabels(workspaceID string) ([]Label, error) {
	query := url.Values{}
	if workspaceID != "" {
		query.Set("workspaceId", workspaceID)
	}
	var labels []Label
	if err := c.GetWithQuery("/labels", query, &labels); err != nil {
		return nil, fmt.Errorf("failed to get labels: %w", err)
	}
	return labels, nil
}

// CreateLabel creates a new label.
func (c *Client) CreateLabel(req CreateLabelRequest) (*Label, error) {
	var label Label
	if err := c.Post("/labels", req, &label); err != nil {
		return nil, fmt.Errorf("failed to create label: %w", err)
	}
	return &label, nil
}

// DeleteLabel deletes a label.
func (c *Client) DeleteLabel(id string) error {
	if err := c.Delete("/labels/" + url.PathEscape(id)); err != nil {
		return fmt.Errorf("failed to delete label %s: %w", id, err)
	}
	return nil
}
