// Package store defines thread persistence for conversation state.
//
// A Thread is the durable record of one conversation, keyed by its
// thread ID. Implementations live in subpackages (memory, postgres,
// sqlite, redis) so applications pick a backend without pulling in the
// drivers of the others.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrThreadNotFound is returned by Load when no thread exists for the
// given ID.
var ErrThreadNotFound = errors.New("thread not found")

// Thread is one persisted conversation.
type Thread struct {
	ID        string          `json:"id"`
	State     json.RawMessage `json:"state"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ThreadStore persists conversation threads.
type ThreadStore interface {
	// Load returns the thread with the given ID, or ErrThreadNotFound.
	Load(ctx context.Context, threadID string) (*Thread, error)

	// Save writes the thread, replacing any previous state for its ID.
	Save(ctx context.Context, thread *Thread) error

	// Delete removes the thread. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, threadID string) error
}
