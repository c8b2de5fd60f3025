package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/stream"
)

var log = logrus.WithField("component", "notify")

// Frame types the backend emits on the stream.
const (
	frameConnected    = "connected"
	frameNotification = "notification"
	framePing         = "ping"
)

// Options tunes a Consumer. Zero values take the defaults below.
type Options struct {
	// Grace is the quiet period after Run starts during which new-id
	// notifications are merged silently. Connecting replays a backlog
	// of recent notifications; without the grace window every
	// reconnect would re-alert on old news.
	Grace time.Duration

	// AlertExpiry is how long an alerted id is remembered so the same
	// notification arriving again does not sound twice.
	AlertExpiry time.Duration

	// Sound is invoked once per alert-worthy notification. Nil means
	// silent.
	Sound func()

	// OnNew is invoked for every genuinely new notification merged
	// into the inbox, including backlog replay during the grace
	// period. Alert gating does not apply to it.
	OnNew func(model.Notification)
}

const (
	defaultGrace       = 4 * time.Second
	defaultAlertExpiry = 5 * time.Minute
)

// Consumer feeds stream frames into an Inbox and emits side effects
// for genuinely new notifications: the sound hook, and a calendar
// refresh signal for types that change the calendar.
type Consumer struct {
	inbox       *Inbox
	grace       time.Duration
	alertExpiry time.Duration
	sound       func()
	onNew       func(model.Notification)

	started  time.Time
	notified map[int]time.Time

	refresh chan struct{}
}

// NewConsumer builds a Consumer over the given inbox.
func NewConsumer(inbox *Inbox, opts Options) *Consumer {
	if opts.Grace <= 0 {
		opts.Grace = defaultGrace
	}
	if opts.AlertExpiry <= 0 {
		opts.AlertExpiry = defaultAlertExpiry
	}
	return &Consumer{
		inbox:       inbox,
		grace:       opts.Grace,
		alertExpiry: opts.AlertExpiry,
		sound:       opts.Sound,
		onNew:       opts.OnNew,
		notified:    make(map[int]time.Time),
		refresh:     make(chan struct{}, 1),
	}
}

// Refresh signals that the calendar should be re-fetched. The channel
// is bounded at one pending signal; refreshes coalesce.
func (c *Consumer) Refresh() <-chan struct{} {
	return c.refresh
}

// Run consumes frames until the channel closes or ctx is canceled.
// A malformed frame is logged and skipped; one bad payload must not
// drop the connection or the messages behind it.
func (c *Consumer) Run(ctx context.Context, events <-chan stream.Event) error {
	c.started = time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.handle(ev)
		}
	}
}

// envelope is the wrapped frame shape some backend revisions emit,
// with the type nested in the payload instead of the SSE event field.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func (c *Consumer) handle(ev stream.Event) {
	name := ev.Name
	payload := ev.Data

	if env := decodeEnvelope(ev.Data); env != nil {
		if name == "" {
			name = env.Event
		}
		if len(env.Data) > 0 {
			payload = env.Data
		}
	}

	switch name {
	case frameConnected:
		log.Debug("stream handshake complete")
	case framePing:
		log.Debug("stream keep-alive")
	case frameNotification:
		var n model.Notification
		if err := json.Unmarshal(payload, &n); err != nil {
			log.WithError(err).Warn("dropping malformed notification frame")
			return
		}
		c.process(n)
	default:
		log.WithField("frame", name).Debug("ignoring unrecognized frame type")
	}
}

// decodeEnvelope returns the envelope when the payload carries one.
func decodeEnvelope(data []byte) *envelope {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Event == "" {
		return nil
	}
	return &env
}

// process merges a notification and decides whether it is alert-worthy.
func (c *Consumer) process(n model.Notification) {
	isNew := c.inbox.Upsert(n)
	if !isNew {
		log.WithField("id", n.ID).Debug("updated existing notification")
		return
	}

	log.WithField("id", n.ID).WithField("type", n.Kind()).Info("new notification")

	if c.onNew != nil {
		c.onNew(n)
	}

	if time.Since(c.started) < c.grace {
		// Backlog replay at connection time, not news.
		log.WithField("id", n.ID).Debug("suppressing alert during grace period")
		return
	}

	c.pruneNotified()
	if _, seen := c.notified[n.ID]; seen {
		log.WithField("id", n.ID).Debug("already alerted recently")
		return
	}
	c.notified[n.ID] = time.Now()

	if c.sound != nil {
		c.sound()
	}

	if n.TriggersCalendarRefresh() {
		select {
		case c.refresh <- struct{}{}:
		default:
			// A refresh is already pending; coalesce.
		}
	}
}

// pruneNotified drops alert records older than the expiry window.
func (c *Consumer) pruneNotified() {
	cutoff := time.Now().Add(-c.alertExpiry)
	for id, at := range c.notified {
		if at.Before(cutoff) {
			delete(c.notified, id)
		}
	}
}
