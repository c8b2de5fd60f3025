package api

import (
	"context"
	"net/url"

	"github.com/fieldops/fieldops/internal/model"
)

// CalendarFilter narrows the calendar query. Dates are passed through
// in the backend's YYYY-MM-DD form. Zero fields are omitted.
type CalendarFilter struct {
	EventType string
	StartDate string
	EndDate   string
}

// CalendarEvents fetches the employee's calendar. The backend returns
// the full event list; there is no incremental variant.
func (c *Client) CalendarEvents(ctx context.Context, filter CalendarFilter) (*model.CalendarResponse, error) {
	query := url.Values{}
	// Only events on verified projects appear on employee calendars.
	query.Set("is_verified", "true")
	if filter.EventType != "" {
		query.Set("event_type", filter.EventType)
	}
	if filter.StartDate != "" {
		query.Set("start_date", filter.StartDate)
	}
	if filter.EndDate != "" {
		query.Set("end_date", filter.EndDate)
	}

	var resp model.CalendarResponse
	if err := c.get(ctx, "/api/my-calendar/", query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
