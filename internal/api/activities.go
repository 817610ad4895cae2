package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// GetActivities returns the most recent activity entries for a workspace.
// A non-positive limit uses the server default.
func (c *Client) GetActivities(workspaceID string, limit int) ([]Activity, error) {
	query := url.Values{}
	query.Set("workspaceId", workspaceID)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var activities []Activity
	if err := c.GetWithQuery("/activities", query, &activities); err != nil {
		return nil, fmt.Errorf("failed to get activities for workspace %s: %w", workspaceID, err)
	}
	return activities, nil
}
