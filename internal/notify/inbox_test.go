package notify

import (
	"testing"

	"github.com/fieldops/fieldops/internal/model"
)

func TestUpsertMergesByID(t *testing.T) {
	inbox := NewInbox()

	if !inbox.Upsert(model.Notification{ID: 42, Title: "first"}) {
		t.Error("first insert of id 42 reported as not new")
	}
	if inbox.Upsert(model.Notification{ID: 42, Title: "second"}) {
		t.Error("second insert of id 42 reported as new")
	}

	unread := inbox.Unread()
	if len(unread) != 1 {
		t.Fatalf("unread len = %d, want 1", len(unread))
	}
	if unread[0].Title != "second" {
		t.Errorf("title = %q, want the later payload to win", unread[0].Title)
	}
}

func TestUnreadIsNewestFirst(t *testing.T) {
	inbox := NewInbox()
	inbox.Upsert(model.Notification{ID: 1})
	inbox.Upsert(model.Notification{ID: 2})
	inbox.Upsert(model.Notification{ID: 3})

	unread := inbox.Unread()
	if len(unread) != 3 || unread[0].ID != 3 || unread[2].ID != 1 {
		t.Errorf("unread order = %v, want newest first", unread)
	}
}

func TestMarkReadMovesToHistory(t *testing.T) {
	inbox := NewInbox()
	inbox.Upsert(model.Notification{ID: 7, Title: "visit"})
	inbox.Upsert(model.Notification{ID: 8})

	if !inbox.MarkRead(7) {
		t.Error("MarkRead(7) = false on a present id")
	}
	if inbox.MarkRead(7) {
		t.Error("MarkRead(7) = true on an already-read id")
	}
	if inbox.MarkRead(999) {
		t.Error("MarkRead(999) = true on an absent id")
	}

	if inbox.Len() != 1 {
		t.Errorf("unread len = %d, want 1", inbox.Len())
	}

	history := inbox.History()
	if len(history) != 1 || history[0].ID != 7 {
		t.Fatalf("history = %v, want just id 7", history)
	}
	if !history[0].IsRead {
		t.Error("history entry not flagged read")
	}
}

func TestMarkAllRead(t *testing.T) {
	inbox := NewInbox()
	inbox.Upsert(model.Notification{ID: 1})
	inbox.Upsert(model.Notification{ID: 2})

	if moved := inbox.MarkAllRead(); moved != 2 {
		t.Errorf("MarkAllRead moved %d, want 2", moved)
	}
	if inbox.Len() != 0 {
		t.Errorf("unread len = %d after MarkAllRead, want 0", inbox.Len())
	}
	if len(inbox.History()) != 2 {
		t.Errorf("history len = %d, want 2", len(inbox.History()))
	}
	if moved := inbox.MarkAllRead(); moved != 0 {
		t.Errorf("second MarkAllRead moved %d, want 0", moved)
	}
}
