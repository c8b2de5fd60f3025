package api

import (
	"context"
	"fmt"

	"github.com/fieldops/fieldops/internal/model"
)

// CurrentUser fetches the authenticated employee's profile.
func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/api/users/me/", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a partial profile update and returns the
// resulting profile.
func (c *Client) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.User, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validating profile update: %w", err)
	}

	var user model.User
	if err := c.patch(ctx, "/api/users/me/", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword sets a new password, authenticated by the current one.
func (c *Client) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return fmt.Errorf("validating password change: %w", err)
	}

	return c.post(ctx, "/api/users/set_password/", req, nil)
}
