// Package notify maintains the in-memory notification inbox and turns
// raw stream frames into merged entries, alert sounds, and calendar
// refresh signals.
package notify

import (
	"sync"

	"github.com/fieldops/fieldops/internal/model"
)

// Inbox is the unread working set, ordered newest first. Identity is
// the notification id: an incoming id already present updates the
// entry in place instead of duplicating it. Marking read removes the
// entry from the unread view but keeps it retrievable through History.
type Inbox struct {
	mu      sync.Mutex
	unread  []model.Notification
	history []model.Notification
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Upsert merges a notification into the unread set and reports whether
// its id was genuinely new (absent from the set).
func (b *Inbox) Upsert(n model.Notification) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.unread {
		if b.unread[i].ID == n.ID {
			b.unread[i] = n
			return false
		}
	}

	b.unread = append([]model.Notification{n}, b.unread...)
	return true
}

// MarkRead removes the notification from the unread view and records
// it in history. Idempotent: marking an absent id is a no-op.
func (b *Inbox) MarkRead(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.unread {
		if b.unread[i].ID == id {
			n := b.unread[i]
			n.IsRead = true
			b.unread = append(b.unread[:i], b.unread[i+1:]...)
			b.history = append([]model.Notification{n}, b.history...)
			return true
		}
	}
	return false
}

// MarkAllRead drains the unread view into history.
func (b *Inbox) MarkAllRead() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	moved := len(b.unread)
	for i := range b.unread {
		n := b.unread[i]
		n.IsRead = true
		b.history = append([]model.Notification{n}, b.history...)
	}
	b.unread = nil
	return moved
}

// Unread returns a copy of the unread set, newest first.
func (b *Inbox) Unread() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notification(nil), b.unread...)
}

// History returns a copy of the read items, newest first.
func (b *Inbox) History() []model.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Notification(nil), b.history...)
}

// Len returns the size of the unread set.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.unread)
}
