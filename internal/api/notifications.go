package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fieldops/fieldops/internal/model"
)

// Notifications fetches one page of the notification list, newest
// first. Pages are 1-based; page 0 means the first page.
func (c *Client) Notifications(ctx context.Context, page int) (*model.NotificationResponse, error) {
	query := url.Values{}
	if page > 1 {
		query.Set("page", strconv.Itoa(page))
	}

	var resp model.NotificationResponse
	if err := c.get(ctx, "/api/notifications/", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UnreadCount fetches the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp model.UnreadCountResponse
	if err := c.get(ctx, "/api/notifications/unread-count/", nil, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}

// MarkRead marks a single notification as read.
func (c *Client) MarkRead(ctx context.Context, id int) error {
	return c.post(ctx, fmt.Sprintf("/api/notifications/%d/mark_read/", id), nil, nil)
}

// MarkAllRead marks every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.post(ctx, "/api/notifications/mark_all_read/", nil, nil)
}

// StreamURL builds the SSE endpoint URL carrying the access token as a
// query parameter; the streaming transport does not forward custom
// auth headers.
func (c *Client) StreamURL(accessToken string) string {
	return c.baseURL + "/api/notifications/stream/?token=" + url.QueryEscape(accessToken)
}
