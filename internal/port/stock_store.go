package port

import "context"

// StockStore persists remaining stock per limited prize kind.
type StockStore interface {
	// SeedStock sets the counter only when it is absent, returns true if it wrote
	SeedStock(ctx context.Context, kind string, quantity int) (bool, error)

	// ReadStock returns the remaining count, ok is false when the counter is absent
	ReadStock(ctx context.Context, kind string) (remaining int, ok bool, err error)

	// SetStock overwrites the counter
	SetStock(ctx context.Context, kind string, quantity int) error

	// DecrementStock atomically takes one unit, returns false if nothing is left
	DecrementStock(ctx context.Context, kind string) (bool, error)
}
