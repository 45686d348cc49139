package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	swarmstore "github.com/smallnest/agentswarm/store"
)

func TestRedisThreadStore(t *testing.T) {
	// Start miniredis
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := NewRedisThreadStore(RedisOptions{
		Addr: mr.Addr(),
	})

	ctx := context.Background()

	thread := &swarmstore.Thread{
		ID:        "thread-1",
		State:     json.RawMessage(`{"active_agent":"Smol_Agent","remaining_steps":5}`),
		UpdatedAt: time.Now(),
	}

	// Test Save
	err = store.Save(ctx, thread)
	assert.NoError(t, err)

	// Test Load
	loaded, err := store.Load(ctx, "thread-1")
	assert.NoError(t, err)
	assert.Equal(t, thread.ID, loaded.ID)
	assert.JSONEq(t, string(thread.State), string(loaded.State))

	// Test Delete
	err = store.Delete(ctx, "thread-1")
	assert.NoError(t, err)

	_, err = store.Load(ctx, "thread-1")
	assert.ErrorIs(t, err, swarmstore.ErrThreadNotFound)
}

func TestRedisThreadStore_LoadMissing(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := NewRedisThreadStore(RedisOptions{Addr: mr.Addr()})

	_, err = store.Load(context.Background(), "no-such-thread")
	assert.ErrorIs(t, err, swarmstore.ErrThreadNotFound)
}

func TestRedisThreadStore_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := NewRedisThreadStore(RedisOptions{
		Addr: mr.Addr(),
		TTL:  time.Minute,
	})

	ctx := context.Background()
	err = store.Save(ctx, &swarmstore.Thread{
		ID:        "thread-ttl",
		State:     json.RawMessage(`{}`),
		UpdatedAt: time.Now(),
	})
	assert.NoError(t, err)

	// Key exists until the TTL elapses.
	_, err = store.Load(ctx, "thread-ttl")
	assert.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, "thread-ttl")
	assert.ErrorIs(t, err, swarmstore.ErrThreadNotFound)
}

func TestRedisThreadStore_KeyPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	store := NewRedisThreadStore(RedisOptions{
		Addr:   mr.Addr(),
		Prefix: "assistant:",
	})

	err = store.Save(context.Background(), &swarmstore.Thread{
		ID:        "thread-1",
		State:     json.RawMessage(`{}`),
		UpdatedAt: time.Now(),
	})
	assert.NoError(t, err)
	assert.True(t, mr.Exists("assistant:thread:thread-1"))
}
