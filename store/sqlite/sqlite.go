// Package sqlite provides a SQLite-backed ThreadStore.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/agentswarm/store"
)

// SqliteThreadStore implements store.ThreadStore using SQLite
type SqliteThreadStore struct {
	db        *sql.DB
	tableName string
}

// SqliteOptions configuration for SQLite connection
type SqliteOptions struct {
	Path      string
	TableName string // Default "threads"
}

// NewSqliteThreadStore creates a new SQLite thread store
func NewSqliteThreadStore(opts SqliteOptions) (*SqliteThreadStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "threads"
	}

	s := &SqliteThreadStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist
func (s *SqliteThreadStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			thread_id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *SqliteThreadStore) Close() error {
	return s.db.Close()
}

// Save upserts the thread state
func (s *SqliteThreadStore) Save(ctx context.Context, thread *store.Thread) error {
	updatedAt := thread.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (thread_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(thread_id) DO UPDATE SET
			state = excluded.state,
			updated_at = excluded.updated_at
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query, thread.ID, string(thread.State), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

// Load retrieves a thread by ID
func (s *SqliteThreadStore) Load(ctx context.Context, threadID string) (*store.Thread, error) {
	query := fmt.Sprintf(`
		SELECT thread_id, state, updated_at
		FROM %s
		WHERE thread_id = ?
	`, s.tableName)

	var thread store.Thread
	var stateJSON string

	err := s.db.QueryRowContext(ctx, query, threadID).Scan(
		&thread.ID,
		&stateJSON,
		&thread.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	thread.State = []byte(stateJSON)
	return &thread, nil
}

// Delete removes a thread
func (s *SqliteThreadStore) Delete(ctx context.Context, threadID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE thread_id = ?", s.tableName)
	_, err := s.db.ExecContext(ctx, query, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}
