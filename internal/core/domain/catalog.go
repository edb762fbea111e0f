package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCatalog = errors.New("invalid prize catalog")

// Catalog is an immutable, validated list of prize definitions in
// declaration order.
type Catalog struct {
	prizes   []PrizeDefinition
	index    map[PrizeKind]int
	fallback int
}

// NewCatalog validates defs and returns a catalog. An all-zero-weight catalog
// is accepted; the draw handles it by falling back to the full catalog.
func NewCatalog(defs []PrizeDefinition) (*Catalog, error) {
	var errs []string

	if len(defs) == 0 {
		errs = append(errs, "catalog must define at least one prize")
	}

	index := make(map[PrizeKind]int, len(defs))
	fallback := -1

	for i, d := range defs {
		if d.Kind == "" {
			errs = append(errs, fmt.Sprintf("prizes[%d].kind is required", i))
		} else if _, dup := index[d.Kind]; dup {
			errs = append(errs, fmt.Sprintf("prizes[%d].kind %q is duplicated", i, d.Kind))
		} else {
			index[d.Kind] = i
		}

		if d.BaseWeight < 0 {
			errs = append(errs, fmt.Sprintf("prizes[%d].weight must be >= 0", i))
		}

		if d.Limited && d.InitialStock <= 0 {
			errs = append(errs, fmt.Sprintf("prizes[%d].stock must be > 0 for a limited prize", i))
		}
		if !d.Limited && d.InitialStock != 0 {
			errs = append(errs, fmt.Sprintf("prizes[%d].stock must be unset for an unlimited prize", i))
		}

		if d.Fallback {
			if d.Limited {
				errs = append(errs, fmt.Sprintf("prizes[%d] is the fallback and must be unlimited", i))
			}
			if fallback >= 0 {
				errs = append(errs, fmt.Sprintf("prizes[%d] is a second fallback; exactly one is allowed", i))
			} else {
				fallback = i
			}
		}
	}

	if len(defs) > 0 && fallback < 0 {
		errs = append(errs, "catalog must mark exactly one unlimited prize as fallback")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, strings.Join(errs, "; "))
	}

	prizes := make([]PrizeDefinition, len(defs))
	copy(prizes, defs)

	return &Catalog{prizes: prizes, index: index, fallback: fallback}, nil
}

// Prizes returns a copy of the definitions in declaration order.
func (c *Catalog) Prizes() []PrizeDefinition {
	out := make([]PrizeDefinition, len(c.prizes))
	copy(out, c.prizes)
	return out
}

func (c *Catalog) Fallback() PrizeDefinition {
	return c.prizes[c.fallback]
}

func (c *Catalog) Lookup(kind PrizeKind) (PrizeDefinition, bool) {
	i, ok := c.index[kind]
	if !ok {
		return PrizeDefinition{}, false
	}
	return c.prizes[i], true
}

// Limited returns the stock-backed definitions in declaration order.
func (c *Catalog) Limited() []PrizeDefinition {
	var out []PrizeDefinition
	for _, p := range c.prizes {
		if p.Limited {
			out = append(out, p)
		}
	}
	return out
}

func (c *Catalog) TotalBaseWeight() int {
	total := 0
	for _, p := range c.prizes {
		total += p.BaseWeight
	}
	return total
}
