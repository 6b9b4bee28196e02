package state

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/openvault/vaultsync/internal/client/sync"
	"github.com/openvault/vaultsync/internal/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS sync_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    revision TEXT NOT NULL DEFAULT '',
    last_sync_ms INTEGER NOT NULL DEFAULT 0,
    last_attempt_ms INTEGER NOT NULL DEFAULT 0
);
INSERT OR IGNORE INTO sync_state (id) VALUES (1);
`

// Store persists the sync bookkeeping in a single-row SQLite table. The zero
// time is represented as 0 milliseconds and means "never".
type Store struct {
	db *sqlx.DB
}

// Open creates or opens the bookkeeping database at path.
func Open(path string) (*Store, error) {
	database, err := db.NewSqliteDB(db.WithPath(path))
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	return New(database)
}

// New initializes a Store on an existing database handle.
func New(database *sqlx.DB) (*Store, error) {
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, fmt.Errorf("init state schema: %w", err)
	}
	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Revision returns the last known revision token, or "" if none was recorded.
func (s *Store) Revision() (string, error) {
	var rev string
	err := s.db.Get(&rev, "SELECT revision FROM sync_state WHERE id = 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

// LastSyncTime returns the last successful sync marker, or the zero time if
// no sync completed yet.
func (s *Store) LastSyncTime() (time.Time, error) {
	return s.timeColumn("last_sync_ms")
}

// LastAttemptAt returns when the last sync attempt started, regardless of its
// outcome, or the zero time if none was observed.
func (s *Store) LastAttemptAt() (time.Time, error) {
	return s.timeColumn("last_attempt_ms")
}

// SetRevision records a revision token on its own. Most callers want
// SetSynced instead, which pairs the token with its sync marker.
func (s *Store) SetRevision(revision string) error {
	if revision == "" {
		return fmt.Errorf("%w: empty revision", sync.ErrInvalidBookkeeping)
	}
	_, err := s.db.Exec("UPDATE sync_state SET revision = ? WHERE id = 1", revision)
	if err != nil {
		return fmt.Errorf("set revision: %w", err)
	}
	return nil
}

// SetLastSyncTime advances only the last-sync marker.
func (s *Store) SetLastSyncTime(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: zero sync time", sync.ErrInvalidBookkeeping)
	}
	_, err := s.db.Exec("UPDATE sync_state SET last_sync_ms = ? WHERE id = 1", t.UnixMilli())
	if err != nil {
		return fmt.Errorf("set last sync time: %w", err)
	}
	return nil
}

// SetSynced records a revision token paired with its sync marker in a single
// transaction, so the two can never be independently stale.
func (s *Store) SetSynced(revision string, t time.Time) error {
	if revision == "" {
		return fmt.Errorf("%w: empty revision", sync.ErrInvalidBookkeeping)
	}
	if t.IsZero() {
		return fmt.Errorf("%w: zero sync time", sync.ErrInvalidBookkeeping)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin synced write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE sync_state SET revision = ?, last_sync_ms = ? WHERE id = 1", revision, t.UnixMilli()); err != nil {
		return fmt.Errorf("write synced state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit synced state: %w", err)
	}
	return nil
}

// MarkAttemptObserved records that a sync attempt started at t.
func (s *Store) MarkAttemptObserved(t time.Time) error {
	if t.IsZero() {
		return fmt.Errorf("%w: zero attempt time", sync.ErrInvalidBookkeeping)
	}
	_, err := s.db.Exec("UPDATE sync_state SET last_attempt_ms = ? WHERE id = 1", t.UnixMilli())
	if err != nil {
		return fmt.Errorf("mark attempt: %w", err)
	}
	return nil
}

func (s *Store) timeColumn(column string) (time.Time, error) {
	var ms int64
	err := s.db.Get(&ms, fmt.Sprintf("SELECT %s FROM sync_state WHERE id = 1", column))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("query %s: %w", column, err)
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(ms), nil
}

var _ sync.LocalState = (*Store)(nil)
