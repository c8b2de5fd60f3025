// Package stream consumes the backend's server-sent-event feed. A
// background reader parses frames off the long-lived connection into a
// bounded channel; closing the channel is the disconnect signal. The
// core Stream never reconnects on its own; Redialer layers that policy
// on top.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "stream")

// Event is one named frame from the feed.
type Event struct {
	// Name is the frame type ("connected", "notification", "ping").
	Name string

	// Data is the raw frame payload, usually JSON.
	Data []byte
}

// Stream is one live connection to the event feed.
type Stream struct {
	id     string
	events chan Event
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

// maxFrameSize bounds a single SSE line; notification payloads are
// small but the scanner default of 64K would truncate nothing anyway.
const maxFrameSize = 256 * 1024

// Open connects to the feed URL and starts the frame reader. The URL
// must already carry the access token as a query parameter; the
// transport does not forward auth headers on this endpoint. The
// returned stream is torn down by Close or by canceling ctx.
func Open(ctx context.Context, url string, buffer int) (*Stream, error) {
	if buffer <= 0 {
		buffer = 32
	}

	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("creating stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No overall timeout: the connection is long-lived by design.
	// Only establishment is bounded.
	client := &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: 15 * time.Second,
			}).DialContext,
		},
	}

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("connecting to event stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("event stream returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	s := &Stream{
		id:     uuid.NewString(),
		events: make(chan Event, buffer),
		cancel: cancel,
	}

	log.WithField("conn", s.id).Debug("event stream connected")
	go s.read(ctx, resp.Body)

	return s, nil
}

// Events returns the frame channel. It is closed when the connection
// ends for any reason; check Err afterwards to distinguish a transport
// failure from a deliberate Close.
func (s *Stream) Events() <-chan Event {
	return s.events
}

// Err returns the terminal error, if the connection ended on one.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close tears the connection down. Safe to call more than once.
func (s *Stream) Close() {
	s.cancel()
}

// read parses frames off the wire until the connection ends.
func (s *Stream) read(ctx context.Context, body io.ReadCloser) {
	defer close(s.events)
	defer body.Close()

	connLog := log.WithField("conn", s.id)

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 4096), maxFrameSize)

	var name string
	var data []byte

	for scanner.Scan() {
		line := scanner.Bytes()

		switch {
		case len(line) == 0:
			// Blank line dispatches the accumulated frame.
			if len(data) > 0 || name != "" {
				ev := Event{Name: name, Data: append([]byte(nil), data...)}
				select {
				case s.events <- ev:
				case <-ctx.Done():
					return
				}
			}
			name = ""
			data = nil

		case line[0] == ':':
			// Comment line, keep-alive padding from some proxies.

		case bytes.HasPrefix(line, []byte("event:")):
			name = string(bytes.TrimSpace(line[len("event:"):]))

		case bytes.HasPrefix(line, []byte("data:")):
			chunk := bytes.TrimPrefix(line[len("data:"):], []byte(" "))
			if len(data) > 0 {
				data = append(data, '\n')
			}
			data = append(data, chunk...)

		default:
			// id: and retry: fields are not used by this backend.
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		connLog.WithError(err).Warn("event stream broken")
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return
	}

	connLog.Debug("event stream closed")
}
