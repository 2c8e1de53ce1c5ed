package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// memory is an in-memory map-based Store implementation. State is lost when
// the process restarts.
type memory struct {
	mu    sync.RWMutex
	games map[string]Record
	now   func() time.Time
}

func NewMemoryStore() Store {
	return &memory{games: make(map[string]Record), now: time.Now}
}

func (m *memory) Save(ctx context.Context, r Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	if old, ok := m.games[r.ID]; ok {
		r.CreatedAt = old.CreatedAt
	} else {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m.games[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.games[id]; ok {
		return r, nil
	}
	return Record{}, ErrNotFound
}

func (m *memory) List(ctx context.Context) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.games))
	for _, r := range m.games {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}
