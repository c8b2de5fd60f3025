package repo

import (
	"context"
	"time"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/locale"
	"github.com/fieldops/fieldops/internal/model"
)

// calendarAPI is the slice of the client the calendar repository needs.
type calendarAPI interface {
	CalendarEvents(ctx context.Context, filter api.CalendarFilter) (*model.CalendarResponse, error)
}

// calendarCache persists the calendar snapshot.
type calendarCache interface {
	PutCalendar(ctx context.Context, cal *model.CalendarResponse) error
	GetCalendar(ctx context.Context) (*model.CalendarResponse, time.Time, error)
}

// Calendar serves the employee's assignment calendar.
type Calendar struct {
	api   calendarAPI
	cache calendarCache
	msgs  *locale.Locale
}

// NewCalendar builds the calendar repository.
func NewCalendar(a calendarAPI, cache calendarCache, msgs *locale.Locale) *Calendar {
	return &Calendar{api: a, cache: cache, msgs: msgs}
}

// Events fetches the calendar, caching the response on success. On
// failure the last cached snapshot is served instead, marked stale;
// the error only surfaces when no snapshot exists.
func (r *Calendar) Events(ctx context.Context, filter api.CalendarFilter) <-chan Result[*model.CalendarResponse] {
	return run(func() Result[*model.CalendarResponse] {
		resp, err := r.api.CalendarEvents(ctx, filter)
		if err == nil {
			if cacheErr := r.cache.PutCalendar(ctx, resp); cacheErr != nil {
				log.WithError(cacheErr).Warn("caching calendar")
			}
			return success(resp)
		}

		log.WithError(err).Warn("calendar fetch failed, trying cache")

		cached, _, cacheErr := r.cache.GetCalendar(ctx)
		if cacheErr == nil && cached != nil {
			return stale(cached)
		}

		if apiErr, ok := api.IsBackendError(err); ok {
			if msg := apiErr.Message(); msg != "" {
				return failure[*model.CalendarResponse](msg)
			}
		}
		return failure[*model.CalendarResponse](r.msgs.CalendarFetchFailed)
	})
}
