package profile

import (
	"context"
	"maps"
	"sync"
)

// Snapshot is the opaque key-value form settings are persisted in. The
// dialogue core never interprets stored keys it does not own.
type Snapshot map[string]string

// Store persists profile snapshots. Load runs once at session start; Save
// runs after every settings-mutating action.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// MemoryStore keeps snapshots in process memory. It backs tests and
// sessions that opt out of persistence.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshot: Snapshot{}}
}

func (s *MemoryStore) Load(context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.snapshot), nil
}

func (s *MemoryStore) Save(_ context.Context, snapshot Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = maps.Clone(snapshot)
	return nil
}
