package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fieldops/fieldops/internal/model"
)

// Login exchanges a username/password pair for a token pair. The
// caller is responsible for persisting the pair; this layer does not
// touch the token store on login.
func (c *Client) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	req := model.LoginRequest{Username: username, Password: password}
	if err := c.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("validating login request: %w", err)
	}

	var resp model.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/jwt/create/", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
