package api

import (
	"fmt"
	"net/url"
)

// GetFiles returns the files stored in a workspace.
func (c *Client) GetFiles(workspaceID string) ([]File, error) {
	var files []File
	if err := c.Get("/storage/"+url.PathEscape(workspaceID)+"/files", &files); err != nil {
		return nil, fmt.Errorf("failed to get files for workspace %s: %w", workspaceID, err)
	}
	return files, nil
}

// GetStorageUsage returns storage consumption for a workspace.
func (c *Client) GetStorageUsage(workspaceID string) (*StorageUsage, error) {
	var usage StorageUsage
	if err := c.Get("/storage/"+url.PathEscape(workspaceID)+"/usage", &usage); err != nil {
		return nil, fmt.Errorf("failed to get storage usage for workspace %s: %w", workspaceID, err)
	}
	return &usage, nil
}

// DeleteFile removes a stored file.
func (c *Client) DeleteFile(workspaceID, fileID string) error {
	if err := c.Delete("/storage/" + url.PathEscape(workspaceID) + "/files/" + url.PathEscape(fileID)); err != nil {
		return fmt.Errorf("failed to delete file %s: %w", fileID, err)
	}
	return nil
}
