package sqlite

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	swarmstore "github.com/smallnest/agentswarm/store"
)

func newTestStore(t *testing.T) *SqliteThreadStore {
	t.Helper()
	s, err := NewSqliteThreadStore(SqliteOptions{
		Path: filepath.Join(t.TempDir(), "threads.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteThreadStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, swarmstore.ErrThreadNotFound)

	thread := &swarmstore.Thread{
		ID:        "thread-1",
		State:     json.RawMessage(`{"active_agent":"Deep_Research_Agent"}`),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, s.Save(ctx, thread))

	loaded, err := s.Load(ctx, "thread-1")
	require.NoError(t, err)
	assert.Equal(t, "thread-1", loaded.ID)
	assert.JSONEq(t, string(thread.State), string(loaded.State))

	require.NoError(t, s.Delete(ctx, "thread-1"))
	_, err = s.Load(ctx, "thread-1")
	assert.ErrorIs(t, err, swarmstore.ErrThreadNotFound)
}

func TestSqliteThreadStore_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &swarmstore.Thread{
		ID: "t", State: json.RawMessage(`{"v":1}`), UpdatedAt: time.Now(),
	}))
	require.NoError(t, s.Save(ctx, &swarmstore.Thread{
		ID: "t", State: json.RawMessage(`{"v":2}`), UpdatedAt: time.Now(),
	}))

	loaded, err := s.Load(ctx, "t")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(loaded.State))
}
