package testutil

import (
	"testing"

	"github.com/fieldops/fieldops/internal/cache"
)

// NewTestStore creates an in-memory cache store with all migrations
// applied. It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *cache.Store {
	t.Helper()

	s, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}
