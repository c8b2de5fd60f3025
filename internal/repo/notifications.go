package repo

import (
	"context"

	"github.com/fieldops/fieldops/internal/locale"
	"github.com/fieldops/fieldops/internal/model"
)

// notificationAPI is the slice of the client the notification
// repository needs.
type notificationAPI interface {
	Notifications(ctx context.Context, page int) (*model.NotificationResponse, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id int) error
	MarkAllRead(ctx context.Context) error
}

// notificationCache records fetched notifications for history.
type notificationCache interface {
	SaveNotifications(ctx context.Context, notifications []model.Notification) error
	MarkNotificationRead(ctx context.Context, id int) error
}

// Notifications is the thin wrapper over the notification endpoints.
type Notifications struct {
	api   notificationAPI
	cache notificationCache
	msgs  *locale.Locale
}

// NewNotifications builds the notification repository. cache may be
// nil when history persistence is not wanted.
func NewNotifications(a notificationAPI, cache notificationCache, msgs *locale.Locale) *Notifications {
	return &Notifications{api: a, cache: cache, msgs: msgs}
}

// List fetches one page of notifications.
func (r *Notifications) List(ctx context.Context, page int) <-chan Result[[]model.Notification] {
	return run(func() Result[[]model.Notification] {
		resp, err := r.api.Notifications(ctx, page)
		if err != nil {
			log.WithError(err).Warn("notification list fetch failed")
			return failure[[]model.Notification](r.msgs.NotificationFetchFailed)
		}

		if r.cache != nil {
			if err := r.cache.SaveNotifications(ctx, resp.Results); err != nil {
				log.WithError(err).Warn("saving notification history")
			}
		}
		return success(resp.Results)
	})
}

// UnreadCount fetches the unread badge count.
func (r *Notifications) UnreadCount(ctx context.Context) <-chan Result[int] {
	return run(func() Result[int] {
		count, err := r.api.UnreadCount(ctx)
		if err != nil {
			log.WithError(err).Warn("unread count fetch failed")
			return failure[int](r.msgs.UnreadCountFetchFailed)
		}
		return success(count)
	})
}

// MarkRead marks one notification read on the backend and in history.
// Marking an already-read notification is a no-op on the backend, so
// the call is idempotent.
func (r *Notifications) MarkRead(ctx context.Context, id int) error {
	if err := r.api.MarkRead(ctx, id); err != nil {
		return err
	}
	if r.cache != nil {
		if err := r.cache.MarkNotificationRead(ctx, id); err != nil {
			log.WithError(err).Warn("marking history entry read")
		}
	}
	return nil
}

// MarkAllRead marks every notification read.
func (r *Notifications) MarkAllRead(ctx context.Context) error {
	return r.api.MarkAllRead(ctx)
}
