package repo

import (
	"context"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/locale"
	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/token"
)

// loginAPI is the slice of the client the auth repository needs.
type loginAPI interface {
	Login(ctx context.Context, username, password string) (*model.LoginResponse, error)
}

// cacheClearer wipes cached data at logout.
type cacheClearer interface {
	Clear(ctx context.Context) error
}

// Auth handles login and logout.
type Auth struct {
	api    loginAPI
	tokens *token.Store
	cache  cacheClearer
	msgs   *locale.Locale
}

// NewAuth builds the auth repository.
func NewAuth(a loginAPI, tokens *token.Store, cache cacheClearer, msgs *locale.Locale) *Auth {
	return &Auth{api: a, tokens: tokens, cache: cache, msgs: msgs}
}

// Login authenticates and persists the token pair plus the username.
func (r *Auth) Login(ctx context.Context, username, password string) <-chan Result[*model.LoginResponse] {
	return run(func() Result[*model.LoginResponse] {
		resp, err := r.api.Login(ctx, username, password)
		if err != nil {
			log.WithError(err).Warn("login failed")
			if apiErr, ok := api.IsBackendError(err); ok {
				return failure[*model.LoginResponse](r.msgs.ForLogin(apiErr.Message()))
			}
			return failure[*model.LoginResponse](r.msgs.LoginFailed)
		}

		if err := r.tokens.SetPair(resp.Access, resp.Refresh); err != nil {
			return failure[*model.LoginResponse](err.Error())
		}
		if err := r.tokens.SetUsername(username); err != nil {
			log.WithError(err).Warn("storing username")
		}

		return success(resp)
	})
}

// Logout clears tokens and cached data. Cache wipe failures are logged
// but do not fail the logout; the tokens are what matter.
func (r *Auth) Logout(ctx context.Context) error {
	if err := r.tokens.Clear(); err != nil {
		return err
	}
	if r.cache != nil {
		if err := r.cache.Clear(ctx); err != nil {
			log.WithError(err).Warn("clearing cache at logout")
		}
	}
	return nil
}

// Username returns the stored login name, if any.
func (r *Auth) Username() (string, bool) {
	return r.tokens.Username()
}
