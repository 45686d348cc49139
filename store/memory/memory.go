// Package memory provides an in-memory ThreadStore for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/smallnest/agentswarm/store"
)

// MemoryThreadStore keeps threads in a map guarded by an RWMutex.
// Contents are lost on process exit.
type MemoryThreadStore struct {
	mu      sync.RWMutex
	threads map[string]*store.Thread
}

// NewMemoryThreadStore creates an empty in-memory store.
func NewMemoryThreadStore() *MemoryThreadStore {
	return &MemoryThreadStore{
		threads: make(map[string]*store.Thread),
	}
}

// Load retrieves a thread by ID.
func (s *MemoryThreadStore) Load(ctx context.Context, threadID string) (*store.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	thread, ok := s.threads[threadID]
	if !ok {
		return nil, store.ErrThreadNotFound
	}
	return copyThread(thread), nil
}

// Save stores a copy of the thread.
func (s *MemoryThreadStore) Save(ctx context.Context, thread *store.Thread) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyThread(thread)
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now()
	}
	s.threads[thread.ID] = stored
	return nil
}

// Delete removes a thread.
func (s *MemoryThreadStore) Delete(ctx context.Context, threadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.threads, threadID)
	return nil
}

// copyThread clones the thread so callers cannot mutate stored state.
func copyThread(t *store.Thread) *store.Thread {
	clone := *t
	clone.State = append([]byte(nil), t.State...)
	return &clone
}
