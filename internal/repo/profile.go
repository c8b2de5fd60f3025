package repo

import (
	"context"
	"time"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/locale"
	"github.com/fieldops/fieldops/internal/model"
)

// profileAPI is the slice of the client the profile repository needs.
type profileAPI interface {
	CurrentUser(ctx context.Context) (*model.User, error)
	UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.User, error)
	ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error
}

// userCache persists the profile snapshot.
type userCache interface {
	PutUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context) (*model.User, time.Time, error)
}

// Profile serves the employee's own account data.
type Profile struct {
	api   profileAPI
	cache userCache
	msgs  *locale.Locale
}

// NewProfile builds the profile repository.
func NewProfile(a profileAPI, cache userCache, msgs *locale.Locale) *Profile {
	return &Profile{api: a, cache: cache, msgs: msgs}
}

// Current fetches the profile, caching it on success and falling back
// to the cached snapshot on failure.
func (r *Profile) Current(ctx context.Context) <-chan Result[*model.User] {
	return run(func() Result[*model.User] {
		user, err := r.api.CurrentUser(ctx)
		if err == nil {
			if cacheErr := r.cache.PutUser(ctx, user); cacheErr != nil {
				log.WithError(cacheErr).Warn("caching profile")
			}
			return success(user)
		}

		log.WithError(err).Warn("profile fetch failed, trying cache")

		cached, _, cacheErr := r.cache.GetUser(ctx)
		if cacheErr == nil && cached != nil {
			return stale(cached)
		}

		if apiErr, ok := api.IsBackendError(err); ok {
			if msg := apiErr.Message(); msg != "" {
				return failure[*model.User](msg)
			}
		}
		return failure[*model.User](r.msgs.ProfileFetchFailed)
	})
}

// Update applies a partial profile edit and refreshes the cached snapshot.
func (r *Profile) Update(ctx context.Context, req model.UpdateProfileRequest) <-chan Result[*model.User] {
	return run(func() Result[*model.User] {
		user, err := r.api.UpdateProfile(ctx, req)
		if err != nil {
			log.WithError(err).Warn("profile update failed")
			if apiErr, ok := api.IsBackendError(err); ok {
				if msg := apiErr.Message(); msg != "" {
					return failure[*model.User](msg)
				}
			}
			return failure[*model.User](r.msgs.ProfileUpdateFailed)
		}

		if cacheErr := r.cache.PutUser(ctx, user); cacheErr != nil {
			log.WithError(cacheErr).Warn("caching profile")
		}
		return success(user)
	})
}

// ChangePassword sets a new password, translating the backend's known
// validation messages.
func (r *Profile) ChangePassword(ctx context.Context, current, newPassword string) <-chan Result[struct{}] {
	return run(func() Result[struct{}] {
		req := model.ChangePasswordRequest{
			CurrentPassword: current,
			NewPassword:     newPassword,
		}
		err := r.api.ChangePassword(ctx, req)
		if err == nil {
			return success(struct{}{})
		}

		log.WithError(err).Warn("password change failed")
		if apiErr, ok := api.IsBackendError(err); ok {
			return failure[struct{}](r.msgs.ForPasswordChange(apiErr.Message()))
		}
		return failure[struct{}](r.msgs.PasswordChangeFailed)
	})
}
