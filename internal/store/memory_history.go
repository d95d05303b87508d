package store

import (
	"context"
	"sync"

	"github.com/musicmixer/api/internal/model"
)

// MemoryHistory keeps the most recent generations in a fixed-size ring.
// Nothing survives a process restart.
type MemoryHistory struct {
	mu    sync.RWMutex
	ring  []*model.GenerationResult
	next  int
	count int
	byID  map[string]*model.GenerationResult
}

func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = 50
	}
	return &MemoryHistory{
		ring: make([]*model.GenerationResult, capacity),
		byID: make(map[string]*model.GenerationResult, capacity),
	}
}

func (h *MemoryHistory) Save(_ context.Context, result *model.GenerationResult) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old := h.ring[h.next]; old != nil {
		delete(h.byID, old.ID)
	}
	h.ring[h.next] = result
	h.byID[result.ID] = result
	h.next = (h.next + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
	return nil
}

func (h *MemoryHistory) Get(_ context.Context, id string) (*model.GenerationResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result, ok := h.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return result, nil
}

// Recent returns up to limit results, newest first.
func (h *MemoryHistory) Recent(_ context.Context, limit int) ([]*model.GenerationResult, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if limit <= 0 || limit > h.count {
		limit = h.count
	}
	results := make([]*model.GenerationResult, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (h.next - i + len(h.ring)) % len(h.ring)
		results = append(results, h.ring[idx])
	}
	return results, nil
}
