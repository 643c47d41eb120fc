package missions

import (
	"context"
	"sync"
)

// Store is the persistence port for the mission collection. The whole
// ordered collection is loaded and saved as one unit under one key;
// there is no row-level update contract. At most one concurrent writer
// is assumed (caller discipline, not enforced here).
type Store interface {
	Load(ctx context.Context) ([]Mission, error)
	Save(ctx context.Context, missions []Mission) error
}

// MemoryStore keeps the collection in process memory. 테스트와 개발용.
type MemoryStore struct {
	mu       sync.Mutex
	missions []Mission
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored collection.
func (s *MemoryStore) Load(_ context.Context) ([]Mission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Mission, len(s.missions))
	copy(out, s.missions)
	return out, nil
}

// Save replaces the stored collection.
func (s *MemoryStore) Save(_ context.Context, missions []Mission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.missions = make([]Mission, len(missions))
	copy(s.missions, missions)
	return nil
}
