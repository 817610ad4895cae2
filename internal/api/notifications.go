package api

import (
	"fmt"
	"net/url"
)

// GetNotifications returns the current user's notifications, newest first.
func (c *Client) GetNotifications(unreadOnly bool) ([]Notification, error) {
	query := url.Values{}
	if unreadOnly {
		query.Set("unread", "true")
	}
	var notifications []Notification
	if err := c.GetWithQuery("/notifications", query, &notifications); err != nil {
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	return notifications, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(id string) error {
	if err := c.Patch("/notifications/"+url.PathEscape(id)+"/read", nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead() error {
	if err := c.Patch("/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
