package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fieldops/fieldops/internal/model"
	"github.com/fieldops/fieldops/internal/stream"
)

func notifFrame(id int, kind string) stream.Event {
	return stream.Event{
		Name: frameNotification,
		Data: []byte(fmt.Sprintf(`{"id": %d, "type": %q, "title": "t"}`, id, kind)),
	}
}

// pastGrace rewinds the consumer's start time so incoming frames count
// as live traffic rather than backlog replay.
func pastGrace(c *Consumer) {
	c.started = time.Now().Add(-time.Minute)
}

func TestGraceSuppressesBacklogAlerts(t *testing.T) {
	sounds := 0
	c := NewConsumer(NewInbox(), Options{Sound: func() { sounds++ }})
	c.started = time.Now()

	for id := 1; id <= 5; id++ {
		c.handle(notifFrame(id, "GENERAL_INFO"))
	}

	if sounds != 0 {
		t.Errorf("sounds during grace period = %d, want 0", sounds)
	}
	if c.inbox.Len() != 5 {
		t.Errorf("inbox len = %d, want backlog merged silently", c.inbox.Len())
	}

	pastGrace(c)
	c.handle(notifFrame(6, "GENERAL_INFO"))

	if sounds != 1 {
		t.Errorf("sounds after grace period = %d, want 1", sounds)
	}
}

func TestAlertedIDDoesNotSoundTwice(t *testing.T) {
	sounds := 0
	inbox := NewInbox()
	c := NewConsumer(inbox, Options{Sound: func() { sounds++ }})
	pastGrace(c)

	c.handle(notifFrame(5, "GENERAL_INFO"))
	if sounds != 1 {
		t.Fatalf("sounds = %d, want 1", sounds)
	}

	// Reading the notification and receiving it again makes it "new"
	// to the inbox, but the alert memory still suppresses the sound.
	inbox.MarkRead(5)
	c.handle(notifFrame(5, "GENERAL_INFO"))
	if sounds != 1 {
		t.Errorf("sounds after redelivery = %d, want still 1", sounds)
	}
}

func TestDuplicateIDUpdatesWithoutAlert(t *testing.T) {
	sounds := 0
	c := NewConsumer(NewInbox(), Options{Sound: func() { sounds++ }})
	pastGrace(c)

	c.handle(notifFrame(42, "GENERAL_INFO"))
	c.handle(notifFrame(42, "GENERAL_INFO"))

	if c.inbox.Len() != 1 {
		t.Errorf("inbox len = %d, want 1", c.inbox.Len())
	}
	if sounds != 1 {
		t.Errorf("sounds = %d, want 1 for two arrivals of one id", sounds)
	}
}

func TestMalformedFrameIsIsolated(t *testing.T) {
	c := NewConsumer(NewInbox(), Options{})
	pastGrace(c)

	c.handle(stream.Event{Name: frameNotification, Data: []byte(`{not json`)})
	if c.inbox.Len() != 0 {
		t.Errorf("inbox len = %d after malformed frame, want 0", c.inbox.Len())
	}

	// The next frame still goes through.
	c.handle(notifFrame(1, "GENERAL_INFO"))
	if c.inbox.Len() != 1 {
		t.Errorf("inbox len = %d, want the following frame processed", c.inbox.Len())
	}
}

func TestRefreshSignalForCalendarKindsOnly(t *testing.T) {
	c := NewConsumer(NewInbox(), Options{})
	pastGrace(c)

	c.handle(notifFrame(1, "GENERAL_INFO"))
	select {
	case <-c.Refresh():
		t.Error("refresh signaled for a non-calendar notification type")
	default:
	}

	c.handle(notifFrame(2, "PROJECT_ASSIGNED"))
	select {
	case <-c.Refresh():
	default:
		t.Error("no refresh signal for PROJECT_ASSIGNED")
	}
}

func TestRefreshSignalsCoalesce(t *testing.T) {
	c := NewConsumer(NewInbox(), Options{})
	pastGrace(c)

	c.handle(notifFrame(1, "MAINTENANCE_ADDED"))
	c.handle(notifFrame(2, "PROJECT_MODIFIED"))

	<-c.Refresh()
	select {
	case <-c.Refresh():
		t.Error("two pending refresh signals, want them coalesced into one")
	default:
	}
}

func TestEnvelopeUnwrapping(t *testing.T) {
	c := NewConsumer(NewInbox(), Options{})
	pastGrace(c)

	// Some backend revisions nest the frame type in the payload and
	// leave the SSE event field empty.
	c.handle(stream.Event{
		Data: []byte(`{"event": "notification", "data": {"id": 9, "type": "GENERAL_INFO"}}`),
	})

	unread := c.inbox.Unread()
	if len(unread) != 1 || unread[0].ID != 9 {
		t.Errorf("unread = %v, want enveloped notification merged", unread)
	}
}

func TestRunDeliversNewNotifications(t *testing.T) {
	var got []model.Notification
	c := NewConsumer(NewInbox(), Options{
		OnNew: func(n model.Notification) { got = append(got, n) },
	})

	events := make(chan stream.Event, 4)
	events <- stream.Event{Name: frameConnected, Data: []byte(`{}`)}
	events <- notifFrame(1, "GENERAL_INFO")
	events <- stream.Event{Name: framePing, Data: []byte(`{}`)}
	events <- notifFrame(2, "GENERAL_INFO")
	close(events)

	if err := c.Run(context.Background(), events); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("delivered = %v, want notifications 1 and 2", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	c := NewConsumer(NewInbox(), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := c.Run(ctx, make(chan stream.Event)); err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
