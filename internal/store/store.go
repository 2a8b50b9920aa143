package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"hrdesk/internal/notifications"
)

// DefaultPath resolves the on-disk location of the notification cache,
// creating the parent directory if needed.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve the user home directory: %s", err)
	}
	dir := filepath.Join(homeDir, ".hrdesk")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create directory at path[%s]: %s", dir, err)
	}
	return filepath.Join(dir, "notifications.db"), nil
}

// Store keeps a local SQLite history of notifications the client has
// seen, so `notifications list --cached` works without a round trip.
type Store struct {
	db *sqlx.DB
}

// NewStore opens (or creates) the database at dbPath, enables WAL mode
// and applies pending migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db at path[%s]: %s", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %s", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %s", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("failed to check schema_version table: %s", err)
	}
	if tableCount > 0 {
		if err := s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
			return fmt.Errorf("failed to read schema version: %s", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("failed to apply migration v%d: %s", m.version, err)
		}
	}
	return nil
}

// UpsertNotifications inserts or replaces a batch of notifications.
func (s *Store) UpsertNotifications(ctx context.Context, items []notifications.Notification) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %s", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, kind, message, read, created_at, origin
		) VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert statement: %s", err)
	}
	defer stmt.Close()

	for _, item := range items {
		_, err = stmt.ExecContext(ctx,
			item.Id, string(item.Kind), item.Message,
			boolToInt(item.Read), item.CreatedAt.UTC(), string(item.Origin),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert notification[%s]: %s", item.Id, err)
		}
	}

	return tx.Commit()
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

// ListNotifications returns cached notifications, most recent first.
func (s *Store) ListNotifications(ctx context.Context, filter ListFilter) ([]notifications.Notification, error) {
	query := "SELECT id, kind, message, read, created_at, origin FROM notifications"
	if filter.UnreadOnly {
		query += " WHERE read = 0"
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %s", err)
	}
	defer rows.Close()

	var items []notifications.Notification
	for rows.Next() {
		item, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// MarkNotificationRead flips a cached entry to read.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx,
		"UPDATE notifications SET read = 1 WHERE id = ?", id,
	); err != nil {
		return fmt.Errorf("failed to mark notification[%s] as read: %s", id, err)
	}
	return nil
}

// Clear drops all cached entries; call it on session switches so one
// user's history can't leak into another's view.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("failed to clear notifications: %s", err)
	}
	return nil
}

func scanNotification(rows *sqlx.Rows) (notifications.Notification, error) {
	var (
		item      notifications.Notification
		kind      string
		readInt   int
		createdAt time.Time
		origin    string
	)
	if err := rows.Scan(&item.Id, &kind, &item.Message, &readInt, &createdAt, &origin); err != nil {
		return notifications.Notification{}, fmt.Errorf("failed to scan notification row: %s", err)
	}
	item.Kind = notifications.Kind(kind)
	item.Read = readInt != 0
	item.CreatedAt = createdAt
	item.Origin = notifications.Origin(origin)
	return item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
