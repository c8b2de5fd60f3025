package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// sseHandler writes the given frames and keeps the connection open
// until the request context ends.
func sseHandler(t *testing.T, frames []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, frame := range frames {
			fmt.Fprint(w, frame)
			flusher.Flush()
		}
		<-r.Context().Done()
	}
}

func collect(t *testing.T, events <-chan Event, n int) []Event {
	t.Helper()
	var got []Event
	timeout := time.After(3 * time.Second)
	for len(got) < n {
		select {
		case ev, ok := <-events:
			if !ok {
				t.Fatalf("channel closed after %d of %d events", len(got), n)
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("timed out after %d of %d events", len(got), n)
		}
	}
	return got
}

func TestOpenParsesFrames(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		"event: connected\ndata: {\"client_id\": \"abc\"}\n\n",
		": keep-alive comment\n\n",
		"event: notification\ndata: {\"id\": 5}\n\n",
		"data: bare data frame\n\n",
	}))
	defer srv.Close()

	s, err := Open(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got := collect(t, s.Events(), 3)

	if got[0].Name != "connected" || string(got[0].Data) != `{"client_id": "abc"}` {
		t.Errorf("frame 0 = %q %q", got[0].Name, got[0].Data)
	}
	if got[1].Name != "notification" || string(got[1].Data) != `{"id": 5}` {
		t.Errorf("frame 1 = %q %q", got[1].Name, got[1].Data)
	}
	// Comment-only frames are skipped; a data frame without an event
	// name is still delivered.
	if got[2].Name != "" || string(got[2].Data) != "bare data frame" {
		t.Errorf("frame 2 = %q %q", got[2].Name, got[2].Data)
	}
}

func TestOpenJoinsMultilineData(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		"event: notification\ndata: line one\ndata: line two\n\n",
	}))
	defer srv.Close()

	s, err := Open(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	got := collect(t, s.Events(), 1)
	if string(got[0].Data) != "line one\nline two" {
		t.Errorf("data = %q, want lines joined with \\n", got[0].Data)
	}
}

func TestOpenRejectsNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := Open(context.Background(), srv.URL, 0); err == nil {
		t.Fatal("Open succeeded against a 401 endpoint")
	}
}

func TestEventsChannelClosesWhenServerEnds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: ping\ndata: {}\n\n")
	}))
	defer srv.Close()

	s, err := Open(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	collect(t, s.Events(), 1)

	select {
	case _, ok := <-s.Events():
		if ok {
			t.Error("unexpected extra frame")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after server ended the stream")
	}
}

func TestCloseStopsTheReader(t *testing.T) {
	srv := httptest.NewServer(sseHandler(t, []string{
		"event: connected\ndata: {}\n\n",
	}))
	defer srv.Close()

	s, err := Open(context.Background(), srv.URL, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	collect(t, s.Events(), 1)
	s.Close()

	select {
	case _, ok := <-s.Events():
		if ok {
			t.Error("unexpected frame after Close")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("channel not closed after Close")
	}
}

func TestRedialerReconnects(t *testing.T) {
	var attempts int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: connected\ndata: {\"attempt\": %d}\n\n", n)
		// Each connection ends right after its first frame, forcing a
		// reconnect for the next one.
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRedialer(func(ctx context.Context) (*Stream, error) {
		return Open(ctx, srv.URL, 0)
	}, 0)
	// Keep the test fast; production uses 1s.
	r.initial = 10 * time.Millisecond

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	got := collect(t, r.Events(), 3)
	for i, ev := range got {
		if ev.Name != "connected" {
			t.Errorf("frame %d name = %q, want connected", i, ev.Name)
		}
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}

func TestNextWaitDoublesToCap(t *testing.T) {
	wait := time.Second
	for _, want := range []time.Duration{2, 4, 8} {
		wait = nextWait(wait, 8*time.Second)
		if wait != want*time.Second {
			t.Fatalf("wait = %s, want %s", wait, want*time.Second)
		}
	}
	if got := nextWait(wait, 8*time.Second); got != 8*time.Second {
		t.Errorf("wait past cap = %s, want clamped to 8s", got)
	}
}

func TestWithJitterStaysInBand(t *testing.T) {
	base := 4 * time.Second
	for i := 0; i < 100; i++ {
		got := withJitter(base)
		if got < 3*time.Second || got > 5*time.Second {
			t.Fatalf("jittered wait %s outside [3s, 5s]", got)
		}
	}
}
