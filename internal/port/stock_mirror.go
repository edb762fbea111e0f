package port

import (
	"context"

	"github.com/rl1809/prize-roulette/internal/core/domain"
)

// StockMirror applies committed decrements to a durable copy of the stock.
type StockMirror interface {
	ApplyCommit(ctx context.Context, commit domain.StockCommit) error
}
