package service

import "github.com/rl1809/prize-roulette/internal/core/domain"

type weightedPrize struct {
	prize  domain.PrizeDefinition
	weight int
}

// effectiveWeights zeroes limited kinds with no remaining stock. Kinds missing
// from stock count as exhausted.
func effectiveWeights(prizes []domain.PrizeDefinition, stock map[domain.PrizeKind]int) []weightedPrize {
	out := make([]weightedPrize, 0, len(prizes))
	for _, p := range prizes {
		w := p.BaseWeight
		if p.Limited && stock[p.Kind] <= 0 {
			w = 0
		}
		out = append(out, weightedPrize{prize: p, weight: w})
	}
	return out
}

// drawPool keeps entries with positive weight. If none is left it returns the
// full catalog at base weights so a spin always has something to land on.
func drawPool(prizes []domain.PrizeDefinition, weighted []weightedPrize) []weightedPrize {
	pool := make([]weightedPrize, 0, len(weighted))
	for _, wp := range weighted {
		if wp.weight > 0 {
			pool = append(pool, wp)
		}
	}
	if len(pool) > 0 {
		return pool
	}

	pool = pool[:0]
	for _, p := range prizes {
		pool = append(pool, weightedPrize{prize: p, weight: p.BaseWeight})
	}
	return pool
}

func totalWeight(pool []weightedPrize) int {
	total := 0
	for _, wp := range pool {
		total += wp.weight
	}
	return total
}

// selectPrize walks pool in order subtracting weights until r falls below the
// current entry's weight. r is expected in [0, totalWeight(pool)); anything
// outside lands on the last entry. pool must not be empty.
func selectPrize(pool []weightedPrize, r float64) weightedPrize {
	for _, wp := range pool {
		if r < float64(wp.weight) {
			return wp
		}
		r -= float64(wp.weight)
	}
	return pool[len(pool)-1]
}
