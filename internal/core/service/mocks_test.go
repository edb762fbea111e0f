package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rl1809/prize-roulette/internal/core/domain"
)

var errStoreDown = errors.New("connection refused")

// Mock StockStore
type mockStockStore struct {
	mu    sync.Mutex
	stock map[string]int

	// staleReads makes ReadStock report this value for every present key
	// while DecrementStock still checks the real counter.
	staleReads *int

	failRead      bool
	failDecrement bool
	failSeed      bool

	decrementCalls int
	seedCalls      int
	setCalls       int
}

func newMockStockStore() *mockStockStore {
	return &mockStockStore{stock: make(map[string]int)}
}

func (m *mockStockStore) SeedStock(ctx context.Context, kind string, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seedCalls++
	if m.failSeed {
		return false, errStoreDown
	}
	if _, ok := m.stock[kind]; ok {
		return false, nil
	}
	m.stock[kind] = quantity
	return true, nil
}

func (m *mockStockStore) ReadStock(ctx context.Context, kind string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failRead {
		return 0, false, errStoreDown
	}
	n, ok := m.stock[kind]
	if ok && m.staleReads != nil {
		return *m.staleReads, true, nil
	}
	return n, ok, nil
}

func (m *mockStockStore) SetStock(ctx context.Context, kind string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	m.stock[kind] = quantity
	return nil
}

func (m *mockStockStore) DecrementStock(ctx context.Context, kind string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.decrementCalls++
	if m.failDecrement {
		return false, errStoreDown
	}
	if m.stock[kind] > 0 {
		m.stock[kind]--
		return true, nil
	}
	return false, nil
}

func (m *mockStockStore) get(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stock[kind]
}

// Mock ParticipationGuard
type mockGuard struct {
	mu       sync.Mutex
	spun     map[string]bool
	released []string
	failWith error
}

func newMockGuard() *mockGuard {
	return &mockGuard{spun: make(map[string]bool)}
}

func (g *mockGuard) ClaimSpin(ctx context.Context, participantID string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failWith != nil {
		return false, g.failWith
	}
	if g.spun[participantID] {
		return false, nil
	}
	g.spun[participantID] = true
	return true, nil
}

func (g *mockGuard) ReleaseSpin(ctx context.Context, participantID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.spun, participantID)
	g.released = append(g.released, participantID)
	return nil
}

// Mock StockMirror
type mockMirror struct {
	mu      sync.Mutex
	applied []domain.StockCommit
	fail    bool
}

func (m *mockMirror) ApplyCommit(ctx context.Context, commit domain.StockCommit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return errStoreDown
	}
	m.applied = append(m.applied, commit)
	return nil
}

// fixedRNG returns the same sample forever.
type fixedRNG float64

func (f fixedRNG) Float64() float64 { return float64(f) }

func mustCatalog(defs ...domain.PrizeDefinition) *domain.Catalog {
	c, err := domain.NewCatalog(defs)
	if err != nil {
		panic(err)
	}
	return c
}

func classicCatalog() *domain.Catalog {
	return mustCatalog(
		domain.PrizeDefinition{Kind: "capri", Label: "Capri-Sun", BaseWeight: 20, Limited: true, InitialStock: 20},
		domain.PrizeDefinition{Kind: "snack", Label: "Snack", BaseWeight: 75, Fallback: true},
		domain.PrizeDefinition{Kind: "baemin", Label: "Baemin voucher", BaseWeight: 3, Limited: true, InitialStock: 3},
		domain.PrizeDefinition{Kind: "cgv", Label: "CGV ticket", BaseWeight: 2, Limited: true, InitialStock: 1},
	)
}
