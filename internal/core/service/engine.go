package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/logger"
	"github.com/google/uuid"

	"github.com/rl1809/prize-roulette/internal/core/domain"
	"github.com/rl1809/prize-roulette/internal/port"
)

var ErrStockUnavailable = errors.New("stock store unavailable")

const commitTimeout = 5 * time.Second

// SeedPolicy controls how catalog stock is written to the store on first use.
type SeedPolicy string

const (
	// SeedIfAbsent leaves existing counters alone, so catalog edits do not
	// reset stock that is already in play.
	SeedIfAbsent SeedPolicy = "if_absent"
	// SeedOverwrite writes the catalog stock on every seed.
	SeedOverwrite SeedPolicy = "overwrite"
)

type EngineOption func(*Engine)

func WithRandomSource(rng RandomSource) EngineOption {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

func WithSeedPolicy(policy SeedPolicy) EngineOption {
	return func(e *Engine) {
		if policy != "" {
			e.seedPolicy = policy
		}
	}
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine draws prizes from a catalog against a shared stock store.
// Weighting, selection and commit for one spin run under a single lock, and
// the commit itself relies on the store's conditional decrement so several
// engines sharing a store never award more than the stock.
type Engine struct {
	catalog    *domain.Catalog
	store      port.StockStore
	rng        RandomSource
	seedPolicy SeedPolicy
	now        func() time.Time

	mu     sync.Mutex
	seeded bool
}

func NewEngine(catalog *domain.Catalog, store port.StockStore, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:    catalog,
		store:      store,
		rng:        DefaultRNG(),
		seedPolicy: SeedIfAbsent,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Catalog() *domain.Catalog {
	return e.catalog
}

// Seed initializes stock counters for every limited kind according to the
// seed policy. Spin seeds lazily if Seed was never called.
func (e *Engine) Seed(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seedLocked(ctx)
}

func (e *Engine) seedLocked(ctx context.Context) error {
	if e.seeded {
		return nil
	}

	for _, p := range e.catalog.Limited() {
		kind := string(p.Kind)

		switch e.seedPolicy {
		case SeedOverwrite:
			if err := e.store.SetStock(ctx, kind, p.InitialStock); err != nil {
				return fmt.Errorf("%w: set stock %s: %w", ErrStockUnavailable, kind, err)
			}
			logger.Infof("stock %s reset to %d", kind, p.InitialStock)
		default:
			ok, err := e.store.SeedStock(ctx, kind, p.InitialStock)
			if err != nil {
				return fmt.Errorf("%w: seed stock %s: %w", ErrStockUnavailable, kind, err)
			}
			if ok {
				logger.Infof("stock %s seeded with %d", kind, p.InitialStock)
			}
		}
	}

	e.seeded = true
	return nil
}

// Spin performs one draw and commits any stock decrement before returning.
// The only errors are ErrStockUnavailable and a context error observed before
// commit; in both cases no stock was taken.
func (e *Engine) Spin(ctx context.Context) (domain.DrawResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return domain.DrawResult{}, err
	}

	if err := e.seedLocked(ctx); err != nil {
		return domain.DrawResult{}, err
	}

	stock, err := e.readStockLocked(ctx)
	if err != nil {
		return domain.DrawResult{}, err
	}

	prizes := e.catalog.Prizes()
	pool := drawPool(prizes, effectiveWeights(prizes, stock))
	r := e.rng.Float64() * float64(totalWeight(pool))
	picked := selectPrize(pool, r).prize

	if err := ctx.Err(); err != nil {
		return domain.DrawResult{}, err
	}

	result := domain.DrawResult{
		SpinID: uuid.New().String(),
		Kind:   picked.Kind,
		Label:  picked.Label,
		SpunAt: e.now(),
	}

	if !picked.Limited {
		return result, nil
	}

	// past this point the caller can no longer cancel the spin
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
	defer cancel()

	ok, err := e.store.DecrementStock(commitCtx, string(picked.Kind))
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("%w: decrement %s: %w", ErrStockUnavailable, picked.Kind, err)
	}
	if !ok {
		// stock ran out between weighting and commit
		fb := e.catalog.Fallback()
		logger.Warningf("spin %s: %s exhausted at commit, awarding %s", result.SpinID, picked.Kind, fb.Kind)
		result.Kind = fb.Kind
		result.Label = fb.Label
		result.Substituted = true
	}

	return result, nil
}

// Prizes reports every prize with its base probability and remaining stock.
func (e *Engine) Prizes(ctx context.Context) ([]domain.PrizeStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.seedLocked(ctx); err != nil {
		return nil, err
	}

	stock, err := e.readStockLocked(ctx)
	if err != nil {
		return nil, err
	}

	total := e.catalog.TotalBaseWeight()
	prizes := e.catalog.Prizes()
	out := make([]domain.PrizeStatus, 0, len(prizes))
	for _, p := range prizes {
		st := domain.PrizeStatus{
			Kind:       p.Kind,
			Label:      p.Label,
			BaseWeight: p.BaseWeight,
			Limited:    p.Limited,
			Fallback:   p.Fallback,
		}
		if total > 0 {
			st.Probability = float64(p.BaseWeight) / float64(total)
		}
		if p.Limited {
			st.Remaining = stock[p.Kind]
		}
		out = append(out, st)
	}
	return out, nil
}

func (e *Engine) readStockLocked(ctx context.Context) (map[domain.PrizeKind]int, error) {
	stock := make(map[domain.PrizeKind]int)
	for _, p := range e.catalog.Limited() {
		remaining, ok, err := e.store.ReadStock(ctx, string(p.Kind))
		if err != nil {
			return nil, fmt.Errorf("%w: read stock %s: %w", ErrStockUnavailable, p.Kind, err)
		}
		if !ok {
			logger.Warningf("stock counter for %s is missing, treating as exhausted", p.Kind)
			remaining = 0
		}
		if remaining < 0 {
			remaining = 0
		}
		stock[p.Kind] = remaining
	}
	return stock, nil
}
