package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vovakirdan/sky-climb/internal/ranking"
)

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value in one write.
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("storage: cannot remove %q: %w", key, err)
	}
	return nil
}

// Update reads key, applies fn and writes the result inside one
// BEGIN IMMEDIATE transaction, so concurrent updates cannot lose writes.
func (s *Store) Update(key string, fn func(old string, ok bool) (string, error)) (err error) {
	s.kvMu.Lock()
	defer s.kvMu.Unlock()

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("storage: cannot get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("storage: cannot begin update of %q: %w", key, err)
	}
	defer func() {
		if err != nil {
			//nolint:errcheck // Rollback after a failed update, the original error wins
			conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	var old string
	ok := true
	err = conn.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		ok = false
	} else if err != nil {
		return fmt.Errorf("storage: cannot read %q: %w", key, err)
	}

	value, err := fn(old, ok)
	if err != nil {
		return err
	}

	_, err = conn.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %q: %w", key, err)
	}
	if _, err = conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("storage: cannot commit %q: %w", key, err)
	}
	return nil
}

// Ensure Store can back the ranking
var _ ranking.KV = (*Store)(nil)
