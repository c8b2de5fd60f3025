// Package session decides, once per app start, whether stored
// credentials are still usable. The refresh endpoint is the only
// authority on refresh-token validity, so the probe is a refresh call:
// validating through a protected resource would conflate token expiry
// with every other failure cause.
package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/token"
)

var log = logrus.WithField("component", "session")

// State is the outcome of the bootstrap check.
type State int

const (
	// Checking is the entry state while the probe is in flight.
	Checking State = iota

	// Authenticated means the refresh token was accepted.
	Authenticated

	// AuthenticatedOffline means the backend was unreachable; tokens
	// are retained and cached data stays usable. Availability over
	// strictness: "server unreachable" is not "credentials rejected".
	AuthenticatedOffline

	// Unauthenticated means no tokens were stored, or the backend
	// definitively rejected them.
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authenticated:
		return "authenticated"
	case AuthenticatedOffline:
		return "authenticated-offline"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Prober issues the validation probe. *api.Client satisfies it.
type Prober interface {
	Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, error)
}

// probeTimeout keeps a slow or unreachable backend from stalling app
// start; past it the user proceeds offline.
const probeTimeout = 5 * time.Second

// Bootstrap classifies the stored session. With either token absent it
// returns Unauthenticated without any network call. Otherwise it
// probes the refresh endpoint: success means Authenticated, a
// definitive backend rejection means Unauthenticated (with tokens
// cleared in the background; the caller's transition does not wait on
// it), and a transport failure means AuthenticatedOffline with tokens
// retained.
func Bootstrap(ctx context.Context, tokens *token.Store, prober Prober) State {
	_, haveAccess := tokens.AccessToken()
	refresh, haveRefresh := tokens.RefreshToken()

	if !haveAccess || !haveRefresh {
		log.Debug("no stored tokens, going to login")
		return Unauthenticated
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := prober.Refresh(probeCtx, refresh)
	if err == nil {
		log.Debug("stored tokens validated")
		return Authenticated
	}

	if apiErr, ok := api.IsBackendError(err); ok {
		log.WithField("status", apiErr.StatusCode).Info("stored tokens rejected, clearing")
		// Fire and forget: the UI transition must not wait on keyring IO.
		go func() {
			if err := tokens.Clear(); err != nil {
				log.WithError(err).Warn("clearing rejected tokens")
			}
		}()
		return Unauthenticated
	}

	log.WithError(err).Info("backend unreachable, proceeding offline")
	return AuthenticatedOffline
}
