package storage

import (
	"context"
	"sync"
)

// MemoryAdapter is a process-local StockStore and ParticipationGuard.
type MemoryAdapter struct {
	mu    sync.Mutex
	stock map[string]int
	spun  map[string]bool
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		stock: make(map[string]int),
		spun:  make(map[string]bool),
	}
}

func (m *MemoryAdapter) SeedStock(ctx context.Context, kind string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.stock[kind]; ok {
		return false, nil
	}
	m.stock[kind] = quantity
	return true, nil
}

func (m *MemoryAdapter) ReadStock(ctx context.Context, kind string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.stock[kind]
	return n, ok, nil
}

func (m *MemoryAdapter) SetStock(ctx context.Context, kind string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stock[kind] = quantity
	return nil
}

func (m *MemoryAdapter) DecrementStock(ctx context.Context, kind string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stock[kind] > 0 {
		m.stock[kind]--
		return true, nil
	}
	return false, nil
}

func (m *MemoryAdapter) ClaimSpin(ctx context.Context, participantID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.spun[participantID] {
		return false, nil
	}
	m.spun[participantID] = true
	return true, nil
}

func (m *MemoryAdapter) ReleaseSpin(ctx context.Context, participantID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.spun, participantID)
	return nil
}
