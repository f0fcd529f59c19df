package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository keeps saved games in process memory. Used in tests and
// when no backend is configured.
type MemoryRepository struct {
	mu    sync.RWMutex
	games map[string]SavedGame
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{games: make(map[string]SavedGame)}
}

func (r *MemoryRepository) Save(_ context.Context, g *SavedGame) error {
	if err := normalize(g); err != nil {
		return err
	}
	r.mu.Lock()
	r.games[g.ID] = *g
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*SavedGame, error) {
	r.mu.RLock()
	g, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	out := g
	return &out, nil
}

func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]*SavedGame, error) {
	r.mu.RLock()
	out := make([]*SavedGame, 0, len(r.games))
	for _, g := range r.games {
		copied := g
		out = append(out, &copied)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].SavedAt.After(out[j].SavedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ErrNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *MemoryRepository) Close() error { return nil }
