// Package token holds the session's bearer credentials: the access
// token, the refresh token, and the username they were issued to.
// Values persist through a Backend (the platform keyring in the real
// client) and every write is observable through Watch, so subscribers
// always see the current value with no staleness window.
package token

import (
	"errors"
	"fmt"
	"sync"

	"github.com/fieldops/fieldops/internal/credential"
)

// Storage keys. Access and refresh tokens are set and cleared as a
// unit; only a successful refresh updates the access token alone.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
	keyUsername     = "username"
)

// Backend is the minimal persistence contract the store needs.
// credential.Ring satisfies it; tests use the in-memory variant.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Change describes a mutation delivered to watchers.
type Change struct {
	// Cleared is true when the whole store was wiped (logout or
	// definitive invalidation).
	Cleared bool
}

// Store is the single shared holder of token state. All methods are
// safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	watchers map[chan Change]struct{}
}

// New returns a Store persisting through the given backend.
func New(backend Backend) *Store {
	return &Store{
		backend:  backend,
		watchers: make(map[chan Change]struct{}),
	}
}

// memoryBackend is a map-backed Backend for tests and ephemeral sessions.
type memoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

func (m *memoryBackend) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", credential.ErrNotFound
	}
	return v, nil
}

func (m *memoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// NewMemory returns a Store backed by process memory only.
func NewMemory() *Store {
	return New(&memoryBackend{values: make(map[string]string)})
}

func (s *Store) get(key string) (string, bool) {
	v, err := s.backend.Get(key)
	if err != nil {
		return "", false
	}
	return v, v != ""
}

// AccessToken returns the current access token, if one is stored.
func (s *Store) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(keyAccessToken)
}

// RefreshToken returns the current refresh token, if one is stored.
func (s *Store) RefreshToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(keyRefreshToken)
}

// Username returns the username the tokens were issued to, if stored.
func (s *Store) Username() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(keyUsername)
}

// SetPair stores a freshly issued access/refresh pair. The two tokens
// are written as a unit: if the second write fails the first is rolled
// back so the store never holds half a pair.
func (s *Store) SetPair(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(keyAccessToken, access); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}
	if err := s.backend.Set(keyRefreshToken, refresh); err != nil {
		if delErr := s.backend.Delete(keyAccessToken); delErr != nil {
			return errors.Join(
				fmt.Errorf("storing refresh token: %w", err),
				fmt.Errorf("rolling back access token: %w", delErr),
			)
		}
		return fmt.Errorf("storing refresh token: %w", err)
	}

	s.notify(Change{})
	return nil
}

// SetAccessToken replaces the access token alone. This is the narrow
// update performed after a successful refresh; the refresh token is
// left untouched.
func (s *Store) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(keyAccessToken, access); err != nil {
		return fmt.Errorf("storing access token: %w", err)
	}

	s.notify(Change{})
	return nil
}

// SetUsername records the username the session belongs to.
func (s *Store) SetUsername(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Set(keyUsername, username); err != nil {
		return fmt.Errorf("storing username: %w", err)
	}

	s.notify(Change{})
	return nil
}

// Clear removes the token pair and the username together.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, key := range []string{keyAccessToken, keyRefreshToken, keyUsername} {
		if err := s.backend.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("clearing tokens: %w", errors.Join(errs...))
	}

	s.notify(Change{Cleared: true})
	return nil
}

// Watch registers a subscriber that receives a Change after every
// successful write or clear. The channel is buffered; a subscriber
// that falls behind misses intermediate changes, never current state,
// since reads always go to the backend.
func (s *Store) Watch() chan Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Change, 4)
	s.watchers[ch] = struct{}{}
	return ch
}

// Unwatch removes a subscriber registered with Watch.
func (s *Store) Unwatch(ch chan Change) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watchers[ch]; ok {
		delete(s.watchers, ch)
		close(ch)
	}
}

// notify fans a change out to watchers without blocking on slow ones.
// Callers hold s.mu.
func (s *Store) notify(c Change) {
	for ch := range s.watchers {
		select {
		case ch <- c:
		default:
		}
	}
}
