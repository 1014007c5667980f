// Package favoritestore holds the port.FavoritesStore backends.
package favoritestore

import (
	"context"
	"sync"

	"inft_dashboard/internal/app/port"
)

// MemoryStore keeps favorites in process memory. Contents are lost on restart.
type MemoryStore struct {
	mu  sync.RWMutex
	ids map[string][]string
}

var _ port.FavoritesStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{ids: make(map[string][]string)}
}

// Load returns a copy of the favorites of owner, empty when none were saved.
func (s *MemoryStore) Load(ctx context.Context, owner string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.ids[owner]...), nil
}

// Save replaces the favorites of owner.
func (s *MemoryStore) Save(ctx context.Context, owner string, objectIDs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(objectIDs) == 0 {
		delete(s.ids, owner)
		return nil
	}
	s.ids[owner] = append([]string(nil), objectIDs...)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
