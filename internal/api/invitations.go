package api

import (
	"fmt"
	"net/url"
)

// GetPendingInvitations returns invitations addressed to the current user.
func (c *Client) GetPendingInvitations() ([]Invitation, error) {
	var invitations []Invitation
	if err := c.Get("/invitations/pending", &invitations); err != nil {
		return nil, fmt.Errorf("failed to get invitations: %w", err)
	}
	return invitations, nil
}

// AcceptInvitation joins the invitation's workspace.
func (c *Client) AcceptInvitation(id string) error {
	if err := c.Post("/invitations/"+url.PathEscape(id)+"/accept", nil, nil); err != nil {
		return fmt.Errorf("failed to accept invitation %s: %w", id, err)
	}
	return nil
}

// DeclineInvitation rejects the invitation.
func (c *Client) DeclineInvitation(id string) error {
	if err := c.Post("/invitations/"+url.PathEscape(id)+"/decline", nil, nil); err != nil {
		return fmt.Errorf("failed to decline invitation %s: %w", id, err)
	}
	return nil
}
