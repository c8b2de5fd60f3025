package stream

import (
	"context"
	"math/rand"
	"time"
)

// OpenFunc establishes one connection attempt. Redialer calls it with
// a fresh context each time, so implementations can re-read the access
// token on every attempt.
type OpenFunc func(ctx context.Context) (*Stream, error)

// Redialer keeps a feed connection alive across failures, reconnecting
// with exponential backoff and jitter. It decorates the core Stream;
// the consumer just ranges over one uninterrupted event channel.
type Redialer struct {
	open   OpenFunc
	events chan Event

	initial time.Duration
	max     time.Duration
}

// NewRedialer wraps open with the reconnect policy.
func NewRedialer(open OpenFunc, buffer int) *Redialer {
	if buffer <= 0 {
		buffer = 32
	}
	return &Redialer{
		open:    open,
		events:  make(chan Event, buffer),
		initial: time.Second,
		max:     2 * time.Minute,
	}
}

// Events returns the merged frame channel. It is closed when Run returns.
func (r *Redialer) Events() <-chan Event {
	return r.events
}

// Run connects and forwards frames until ctx is canceled, reopening
// the connection after each failure. The backoff interval doubles per
// consecutive failed attempt and resets once a connection has actually
// delivered a frame.
func (r *Redialer) Run(ctx context.Context) error {
	defer close(r.events)

	wait := r.initial

	for {
		s, err := r.open(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.WithError(err).Warnf("stream connect failed, retrying in %s", wait)
			if !sleep(ctx, withJitter(wait)) {
				return ctx.Err()
			}
			wait = nextWait(wait, r.max)
			continue
		}

		delivered := false
		for ev := range s.Events() {
			delivered = true
			select {
			case r.events <- ev:
			case <-ctx.Done():
				s.Close()
				return ctx.Err()
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if delivered {
			wait = r.initial
		}

		if err := s.Err(); err != nil {
			log.WithError(err).Warnf("stream dropped, reconnecting in %s", wait)
		} else {
			log.Warnf("stream closed by server, reconnecting in %s", wait)
		}
		if !sleep(ctx, withJitter(wait)) {
			return ctx.Err()
		}
		wait = nextWait(wait, r.max)
	}
}

// nextWait doubles the interval up to the cap.
func nextWait(wait, max time.Duration) time.Duration {
	wait *= 2
	if wait > max {
		wait = max
	}
	return wait
}

// withJitter spreads reconnect attempts over ±25% of the interval so a
// fleet of clients does not stampede the backend after an outage.
func withJitter(d time.Duration) time.Duration {
	spread := int64(d) / 2
	if spread <= 0 {
		return d
	}
	return d - time.Duration(spread/2) + time.Duration(rand.Int63n(spread))
}

// sleep waits for d or ctx cancellation, reporting whether the full
// wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
