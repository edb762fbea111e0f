package domain

import "time"

type PrizeKind string

type PrizeDefinition struct {
	Kind         PrizeKind
	Label        string
	BaseWeight   int
	Limited      bool
	InitialStock int // only meaningful when Limited
	Fallback     bool
}

// DrawResult is what one spin awards. Kind is the final kind after any
// fallback substitution.
type DrawResult struct {
	SpinID      string
	Kind        PrizeKind
	Label       string
	Substituted bool
	SpunAt      time.Time
}

// StockCommit records one committed decrement of a limited kind.
type StockCommit struct {
	SpinID      string
	Kind        PrizeKind
	CommittedAt time.Time
}

// PrizeStatus is a read-only view of a prize and its current stock.
type PrizeStatus struct {
	Kind        PrizeKind
	Label       string
	BaseWeight  int
	Probability float64 // share of the base weight total
	Limited     bool
	Remaining   int
	Fallback    bool
}
