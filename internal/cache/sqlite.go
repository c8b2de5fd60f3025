// Package cache persists last-known-good snapshots so the calendar and
// profile stay readable when the backend is unreachable. It also keeps
// the notification history, so items marked read remain retrievable.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fieldops/fieldops/internal/model"
)

// Snapshot keys.
const (
	keyUser     = "user"
	keyCalendar = "calendar"
)

// Freshness is the age under which a snapshot is considered fresh.
// Freshness gates a preference for live data; a stale snapshot is
// still displayed when nothing better exists.
const Freshness = 5 * time.Minute

// Store is a SQLite-backed snapshot cache.
type Store struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// putSnapshot stores a JSON payload under key with the current time.
func (s *Store) putSnapshot(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling %s snapshot: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing %s snapshot: %w", key, err)
	}
	return nil
}

// getSnapshot loads the payload stored under key into value and
// returns when it was fetched. A missing snapshot returns ok=false.
func (s *Store) getSnapshot(ctx context.Context, key string, value interface{}) (time.Time, bool, error) {
	var row struct {
		Payload   string    `db:"payload"`
		FetchedAt time.Time `db:"fetched_at"`
	}
	err := s.db.GetContext(ctx, &row, "SELECT payload, fetched_at FROM snapshots WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("loading %s snapshot: %w", key, err)
	}

	if err := json.Unmarshal([]byte(row.Payload), value); err != nil {
		return time.Time{}, false, fmt.Errorf("unmarshaling %s snapshot: %w", key, err)
	}
	return row.FetchedAt, true, nil
}

// PutUser stores the profile snapshot.
func (s *Store) PutUser(ctx context.Context, user *model.User) error {
	return s.putSnapshot(ctx, keyUser, user)
}

// GetUser loads the cached profile, if one exists.
func (s *Store) GetUser(ctx context.Context) (*model.User, time.Time, error) {
	var user model.User
	fetchedAt, ok, err := s.getSnapshot(ctx, keyUser, &user)
	if err != nil || !ok {
		return nil, time.Time{}, err
	}
	return &user, fetchedAt, nil
}

// PutCalendar stores the calendar snapshot.
func (s *Store) PutCalendar(ctx context.Context, cal *model.CalendarResponse) error {
	return s.putSnapshot(ctx, keyCalendar, cal)
}

// GetCalendar loads the cached calendar, if one exists.
func (s *Store) GetCalendar(ctx context.Context) (*model.CalendarResponse, time.Time, error) {
	var cal model.CalendarResponse
	fetchedAt, ok, err := s.getSnapshot(ctx, keyCalendar, &cal)
	if err != nil || !ok {
		return nil, time.Time{}, err
	}
	return &cal, fetchedAt, nil
}

// Fresh reports whether a snapshot fetched at the given time is still
// within the freshness window.
func Fresh(fetchedAt time.Time) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return time.Since(fetchedAt) < Freshness
}

// SaveNotifications upserts notifications into the history table,
// preserving their read flags.
func (s *Store) SaveNotifications(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO notifications (id, payload, read, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, read = excluded.read`)
	if err != nil {
		return fmt.Errorf("preparing notification upsert: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		payload, err := json.Marshal(n)
		if err != nil {
			return fmt.Errorf("marshaling notification %d: %w", n.ID, err)
		}
		read := 0
		if n.IsRead {
			read = 1
		}
		if _, err := stmt.ExecContext(ctx, n.ID, string(payload), read, n.CreatedAt); err != nil {
			return fmt.Errorf("upserting notification %d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing notifications: %w", err)
	}
	return nil
}

// MarkNotificationRead flips the read flag in history.
func (s *Store) MarkNotificationRead(ctx context.Context, id int) error {
	if _, err := s.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return nil
}

// Notifications returns up to limit stored notifications, newest first.
// Read items are included; this is the retrievable history.
func (s *Store) Notifications(ctx context.Context, limit int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []struct {
		Payload string `db:"payload"`
		Read    int    `db:"read"`
	}
	err := s.db.SelectContext(ctx, &rows,
		"SELECT payload, read FROM notifications ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("loading notifications: %w", err)
	}

	notifications := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		var n model.Notification
		if err := json.Unmarshal([]byte(row.Payload), &n); err != nil {
			// A corrupt row is skipped rather than poisoning the list.
			continue
		}
		n.IsRead = row.Read == 1
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// Clear wipes all cached data. Called on logout.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clearing snapshots: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing notifications: %w", err)
	}
	return nil
}
