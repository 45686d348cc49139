// Package redis provides a Redis-backed ThreadStore.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smallnest/agentswarm/store"
)

// RedisThreadStore implements store.ThreadStore using Redis
type RedisThreadStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "agentswarm:"
	TTL      time.Duration // Expiration for threads, default 0 (no expiration)
}

// NewRedisThreadStore creates a new Redis thread store
func NewRedisThreadStore(opts RedisOptions) *RedisThreadStore {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "agentswarm:"
	}

	return &RedisThreadStore{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// NewRedisThreadStoreWithClient wraps an existing client. Useful for
// testing with miniredis.
func NewRedisThreadStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisThreadStore {
	if prefix == "" {
		prefix = "agentswarm:"
	}
	return &RedisThreadStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisThreadStore) threadKey(id string) string {
	return fmt.Sprintf("%sthread:%s", s.prefix, id)
}

// Save stores the thread state
func (s *RedisThreadStore) Save(ctx context.Context, thread *store.Thread) error {
	stored := *thread
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("failed to marshal thread: %w", err)
	}

	if err := s.client.Set(ctx, s.threadKey(thread.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save thread to redis: %w", err)
	}
	return nil
}

// Load retrieves a thread by ID
func (s *RedisThreadStore) Load(ctx context.Context, threadID string) (*store.Thread, error) {
	data, err := s.client.Get(ctx, s.threadKey(threadID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, store.ErrThreadNotFound
		}
		return nil, fmt.Errorf("failed to load thread from redis: %w", err)
	}

	var thread store.Thread
	if err := json.Unmarshal(data, &thread); err != nil {
		return nil, fmt.Errorf("failed to unmarshal thread: %w", err)
	}
	return &thread, nil
}

// Delete removes a thread
func (s *RedisThreadStore) Delete(ctx context.Context, threadID string) error {
	if err := s.client.Del(ctx, s.threadKey(threadID)).Err(); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	return nil
}

// Close closes the underlying client
func (s *RedisThreadStore) Close() error {
	return s.client.Close()
}
