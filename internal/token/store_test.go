package token

import (
	"testing"
)

func TestSetPairAndRead(t *testing.T) {
	s := NewMemory()

	if _, ok := s.AccessToken(); ok {
		t.Fatal("expected empty store to have no access token")
	}

	if err := s.SetPair("acc-1", "ref-1"); err != nil {
		t.Fatalf("SetPair: %v", err)
	}

	access, ok := s.AccessToken()
	if !ok || access != "acc-1" {
		t.Errorf("AccessToken = %q, %v; want acc-1, true", access, ok)
	}
	refresh, ok := s.RefreshToken()
	if !ok || refresh != "ref-1" {
		t.Errorf("RefreshToken = %q, %v; want ref-1, true", refresh, ok)
	}
}

func TestSetAccessTokenLeavesRefreshUntouched(t *testing.T) {
	s := NewMemory()
	if err := s.SetPair("acc-1", "ref-1"); err != nil {
		t.Fatalf("SetPair: %v", err)
	}

	if err := s.SetAccessToken("acc-2"); err != nil {
		t.Fatalf("SetAccessToken: %v", err)
	}

	access, _ := s.AccessToken()
	if access != "acc-2" {
		t.Errorf("AccessToken = %q, want acc-2", access)
	}
	refresh, _ := s.RefreshToken()
	if refresh != "ref-1" {
		t.Errorf("RefreshToken = %q, want ref-1", refresh)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	s := NewMemory()
	if err := s.SetPair("acc", "ref"); err != nil {
		t.Fatalf("SetPair: %v", err)
	}
	if err := s.SetUsername("amine"); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	if _, ok := s.AccessToken(); ok {
		t.Error("access token survived Clear")
	}
	if _, ok := s.RefreshToken(); ok {
		t.Error("refresh token survived Clear")
	}
	if _, ok := s.Username(); ok {
		t.Error("username survived Clear")
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	s := NewMemory()
	ch := s.Watch()
	defer s.Unwatch(ch)

	if err := s.SetPair("acc", "ref"); err != nil {
		t.Fatalf("SetPair: %v", err)
	}

	select {
	case c := <-ch:
		if c.Cleared {
			t.Error("SetPair delivered Cleared change")
		}
	default:
		t.Fatal("no change delivered after SetPair")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	select {
	case c := <-ch:
		if !c.Cleared {
			t.Error("Clear delivered non-Cleared change")
		}
	default:
		t.Fatal("no change delivered after Clear")
	}
}

func TestUnwatchStopsDelivery(t *testing.T) {
	s := NewMemory()
	ch := s.Watch()
	s.Unwatch(ch)

	// The channel must be closed so ranging subscribers terminate.
	if _, open := <-ch; open {
		t.Error("channel still open after Unwatch")
	}

	// Writing after Unwatch must not panic on the closed channel.
	if err := s.SetUsername("amine"); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}
}
