package db

import (
	"context"
	"slices"
	"sync"

	"vibefinder/internal/types"
)

// maxMemoryHistory bounds the in-memory history log; the oldest entries are
// dropped first.
const maxMemoryHistory = 1000

// MemoryHistoryStore is the history store used when DATABASE_URL is unset.
// Contents are lost on restart.
type MemoryHistoryStore struct {
	mu      sync.Mutex
	clock   types.Clock
	entries []types.HistoryEntry
}

// NewMemoryHistoryStore creates an empty MemoryHistoryStore.
func NewMemoryHistoryStore(clock types.Clock) *MemoryHistoryStore {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &MemoryHistoryStore{clock: clock}
}

func (s *MemoryHistoryStore) Append(_ context.Context, entry types.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, stampHistory(entry, s.clock.Now()))
	if over := len(s.entries) - maxMemoryHistory; over > 0 {
		s.entries = slices.Delete(s.entries, 0, over)
	}
	return nil
}

// List returns up to limit entries, newest first.
func (s *MemoryHistoryStore) List(_ context.Context, limit int) ([]types.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := min(limit, len(s.entries))
	out := make([]types.HistoryEntry, 0, max(n, 0))
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// MemoryFavoriteStore is the favorites store used when DATABASE_URL is unset.
type MemoryFavoriteStore struct {
	mu        sync.Mutex
	clock     types.Clock
	favorites []types.Favorite
	names     map[string]struct{}
}

// NewMemoryFavoriteStore creates an empty MemoryFavoriteStore.
func NewMemoryFavoriteStore(clock types.Clock) *MemoryFavoriteStore {
	if clock == nil {
		clock = types.RealClock{}
	}
	return &MemoryFavoriteStore{clock: clock, names: make(map[string]struct{})}
}

func (s *MemoryFavoriteStore) Save(_ context.Context, fav types.Favorite) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.names[fav.Name]; exists {
		return false, nil
	}
	s.names[fav.Name] = struct{}{}
	s.favorites = append(s.favorites, stampFavorite(fav, s.clock.Now()))
	return true, nil
}

// List returns every favorite in insertion order.
func (s *MemoryFavoriteStore) List(_ context.Context) ([]types.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]types.Favorite{}, s.favorites...), nil
}
