// Package postgres provides a PostgreSQL-backed ThreadStore.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/agentswarm/store"
)

// DBPool defines the interface for database connection pool
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresThreadStore implements store.ThreadStore using PostgreSQL
type PostgresThreadStore struct {
	pool      DBPool
	tableName string
}

// PostgresOptions configuration for Postgres connection
type PostgresOptions struct {
	ConnString string
	TableName  string // Default "threads"
}

// NewPostgresThreadStore creates a new Postgres thread store
func NewPostgresThreadStore(ctx context.Context, opts PostgresOptions) (*PostgresThreadStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "threads"
	}

	return &PostgresThreadStore{
		pool:      pool,
		tableName: tableName,
	}, nil
}

// NewPostgresThreadStoreWithPool creates a new Postgres thread store with an existing pool
// Useful for testing with mocks
func NewPostgresThreadStoreWithPool(pool DBPool, tableName string) *PostgresThreadStore {
	if tableName == "" {
		tableName = "threads"
	}
	return &PostgresThreadStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist
func (s *PostgresThreadStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			thread_id TEXT PRIMARY KEY,
			state JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresThreadStore) Close() {
	s.pool.Close()
}

// Save upserts the thread state
func (s *PostgresThreadStore) Save(ctx context.Context, thread *store.Thread) error {
	updatedAt := thread.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (thread_id, state, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (thread_id) DO UPDATE SET
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query, thread.ID, []byte(thread.State), updatedAt)
	if err != nil {
		return fmt.Errorf("failed to save thread: %w", err)
	}
	return nil
}

// Load retrieves a thread by ID
func (s *PostgresThreadStore) Load(ctx context.Context, threadID string) (*store.Thread, error) {
	query := fmt.Sprintf(`
		SELECT thread_id, state, updated_at
		FROM %s
		WHERE thread_id = $1
	`, s.tableName)

	var thread store.Thread
	var stateJSON []byte

	err := s.pool.QueryRow(ctx, query, threadID).Scan(
		&thread.ID,
		&stateJSON,
		&thread.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, store.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to load thread: %w", err)
	}

	thread.State = stateJSON
	return &thread, nil
}

// Delete removes a thread
func (s *PostgresThreadStore) Delete(ctx context.Context, threadID string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE thread_id = $1", s.tableName)
	_, err := s.pool.Exec(ctx, query, threadID)
	if err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}
