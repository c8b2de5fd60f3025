package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/fieldops/fieldops/internal/api"
	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/token"
)

// fakeProber records refresh probes and returns a scripted outcome.
type fakeProber struct {
	calls int
	err   error
}

func (p *fakeProber) Refresh(ctx context.Context, refreshToken string) (*model.RefreshResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &model.RefreshResponse{Access: "acc-new"}, nil
}

func TestBootstrapWithoutTokensSkipsProbe(t *testing.T) {
	prober := &fakeProber{}

	state := Bootstrap(context.Background(), token.NewMemory(), prober)
	if state != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", state)
	}
	if prober.calls != 0 {
		t.Errorf("probe calls = %d, want 0 with no stored tokens", prober.calls)
	}
}

func TestBootstrapWithAccessOnlySkipsProbe(t *testing.T) {
	tokens := token.NewMemory()
	if err := tokens.SetAccessToken("acc-1"); err != nil {
		t.Fatal(err)
	}
	prober := &fakeProber{}

	if state := Bootstrap(context.Background(), tokens, prober); state != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", state)
	}
	if prober.calls != 0 {
		t.Errorf("probe calls = %d, want 0 without a refresh token", prober.calls)
	}
}

func TestBootstrapAcceptedTokens(t *testing.T) {
	tokens := token.NewMemory()
	if err := tokens.SetPair("acc-1", "ref-1"); err != nil {
		t.Fatal(err)
	}

	if state := Bootstrap(context.Background(), tokens, &fakeProber{}); state != Authenticated {
		t.Errorf("state = %v, want authenticated", state)
	}
	if _, ok := tokens.RefreshToken(); !ok {
		t.Error("refresh token missing after successful probe")
	}
}

func TestBootstrapTransportFailureKeepsTokens(t *testing.T) {
	tokens := token.NewMemory()
	if err := tokens.SetPair("acc-1", "ref-1"); err != nil {
		t.Fatal(err)
	}
	prober := &fakeProber{err: errors.New("dial tcp: connection refused")}

	if state := Bootstrap(context.Background(), tokens, prober); state != AuthenticatedOffline {
		t.Errorf("state = %v, want authenticated-offline", state)
	}
	if _, ok := tokens.AccessToken(); !ok {
		t.Error("access token cleared on an unreachable backend")
	}
	if _, ok := tokens.RefreshToken(); !ok {
		t.Error("refresh token cleared on an unreachable backend")
	}
}

func TestBootstrapRejectedTokensClearsStore(t *testing.T) {
	tokens := token.NewMemory()
	if err := tokens.SetPair("acc-1", "ref-1"); err != nil {
		t.Fatal(err)
	}
	prober := &fakeProber{err: &api.Error{StatusCode: http.StatusUnauthorized}}

	if state := Bootstrap(context.Background(), tokens, prober); state != Unauthenticated {
		t.Errorf("state = %v, want unauthenticated", state)
	}

	// The clear runs in the background; poll with a deadline.
	deadline := time.Now().Add(2 * time.Second)
	for {
		_, haveAccess := tokens.AccessToken()
		_, haveRefresh := tokens.RefreshToken()
		if !haveAccess && !haveRefresh {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("tokens not cleared after definitive rejection")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Checking:             "checking",
		Authenticated:        "authenticated",
		AuthenticatedOffline: "authenticated-offline",
		Unauthenticated:      "unauthenticated",
		State(99):            "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
