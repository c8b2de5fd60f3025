// Package api is the HTTP client for the company backend. It attaches
// the current access token to every request and transparently recovers
// from an expired one: a 401 triggers a single-flight token refresh
// followed by exactly one retry of the original request. Refresh
// failures never clear stored tokens; that decision belongs to the
// session layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/fieldops/fieldops/internal/config"
	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/token"
)

var log = logrus.WithField("component", "api")

// Client issues REST calls against the backend with bearer
// authentication from the token store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *token.Store
	refreshing singleflight.Group
	validate   *validator.Validate
}

// New creates a Client for the given base URL. Timeouts default to
// 30s per request and 15s for connection establishment when the config
// leaves them zero.
func New(cfg config.APIConfig, tokens *token.Store) *Client {
	requestTimeout := time.Duration(cfg.RequestTimeoutSec) * time.Second
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	connectTimeout := time.Duration(cfg.ConnectTimeoutSec) * time.Second
	if connectTimeout <= 0 {
		connectTimeout = 15 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: connectTimeout,
				}).DialContext,
			},
		},
		tokens:   tokens,
		validate: validator.New(),
	}
}

// BaseURL returns the configured backend root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// get performs an authenticated GET and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, result, true)
}

// post performs an authenticated POST with an optional JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, result, true)
}

// patch performs an authenticated PATCH with a JSON body.
func (c *Client) patch(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, result, true)
}

// do builds and sends a request. When authed is set, the current
// access token is attached and a 401 response triggers the
// refresh-and-retry-once protocol.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
	result interface{},
	authed bool,
) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
	}

	access, _ := c.tokens.AccessToken()

	status, respBody, err := c.send(ctx, method, fullURL, payload, access, authed)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && authed {
		firstErr := newError(status, respBody)

		newAccess, refreshErr := c.refreshAccessToken(ctx)
		if refreshErr != nil {
			// The refresh layer never escalates: log and surface the
			// original 401 to the caller.
			log.WithError(refreshErr).Warn("token refresh failed")
			return firstErr
		}

		status, respBody, err = c.send(ctx, method, fullURL, payload, newAccess, true)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		return newError(status, respBody)
	}

	if result == nil || status == http.StatusNoContent {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}

// send performs one HTTP exchange and returns the status and body.
func (c *Client) send(
	ctx context.Context,
	method string,
	fullURL string,
	payload []byte,
	access string,
	authed bool,
) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed && access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing request %s %s: %w", method, fullURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading response body: %w", err)
	}

	return resp.StatusCode, respBody, nil
}

// refreshAccessToken runs the refresh routine under a single-flight
// guard: concurrent 401s share one refresh call instead of racing each
// other's refresh token. On success the new access token is persisted
// before any caller retries, so every retry sees the fresh value.
func (c *Client) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := c.refreshing.Do("refresh", func() (interface{}, error) {
		refresh, ok := c.tokens.RefreshToken()
		if !ok {
			return "", ErrNoRefreshToken
		}

		resp, err := c.Refresh(ctx, refresh)
		if err != nil {
			return "", err
		}
		if resp.Access == "" {
			return "", fmt.Errorf("refresh response missing access token")
		}

		if err := c.tokens.SetAccessToken(resp.Access); err != nil {
			return "", fmt.Errorf("persisting refreshed access token: %w", err)
		}

		log.Debug("access token refreshed")
		return resp.Access, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Refresh exchanges a refresh token for a new access token. The call
// itself is unauthenticated and never enters the retry protocol.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, error) {
	var resp model.RefreshResponse
	req := model.RefreshRequest{Refresh: refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/jwt/refresh/", nil, req, &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
