package domain

import (
	"errors"
	"strings"
	"testing"
)

func classicDefs() []PrizeDefinition {
	return []PrizeDefinition{
		{Kind: "capri", Label: "Capri-Sun", BaseWeight: 20, Limited: true, InitialStock: 20},
		{Kind: "snack", Label: "Snack", BaseWeight: 75, Fallback: true},
		{Kind: "baemin", Label: "Baemin voucher", BaseWeight: 3, Limited: true, InitialStock: 3},
		{Kind: "cgv", Label: "CGV ticket", BaseWeight: 2, Limited: true, InitialStock: 1},
	}
}

func TestNewCatalog_Valid(t *testing.T) {
	catalog, err := NewCatalog(classicDefs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if catalog.Fallback().Kind != "snack" {
		t.Errorf("expected snack fallback, got %s", catalog.Fallback().Kind)
	}
	if catalog.TotalBaseWeight() != 100 {
		t.Errorf("expected total weight 100, got %d", catalog.TotalBaseWeight())
	}

	limited := catalog.Limited()
	if len(limited) != 3 || limited[0].Kind != "capri" || limited[2].Kind != "cgv" {
		t.Errorf("unexpected limited kinds: %+v", limited)
	}
}

func TestNewCatalog_KeepsDeclarationOrder(t *testing.T) {
	catalog, _ := NewCatalog(classicDefs())

	want := []PrizeKind{"capri", "snack", "baemin", "cgv"}
	for i, p := range catalog.Prizes() {
		if p.Kind != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], p.Kind)
		}
	}
}

func TestNewCatalog_PrizesIsACopy(t *testing.T) {
	catalog, _ := NewCatalog(classicDefs())

	prizes := catalog.Prizes()
	prizes[0].BaseWeight = 1000

	if p, _ := catalog.Lookup("capri"); p.BaseWeight != 20 {
		t.Errorf("catalog mutated through Prizes(): weight %d", p.BaseWeight)
	}
}

func TestNewCatalog_AllZeroWeightsAccepted(t *testing.T) {
	_, err := NewCatalog([]PrizeDefinition{
		{Kind: "a", BaseWeight: 0, Limited: true, InitialStock: 1},
		{Kind: "b", BaseWeight: 0, Fallback: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		defs []PrizeDefinition
		want string
	}{
		{
			name: "empty",
			defs: nil,
			want: "at least one prize",
		},
		{
			name: "no fallback",
			defs: []PrizeDefinition{{Kind: "a", BaseWeight: 1}},
			want: "exactly one unlimited prize",
		},
		{
			name: "two fallbacks",
			defs: []PrizeDefinition{
				{Kind: "a", BaseWeight: 1, Fallback: true},
				{Kind: "b", BaseWeight: 1, Fallback: true},
			},
			want: "second fallback",
		},
		{
			name: "limited fallback",
			defs: []PrizeDefinition{{Kind: "a", BaseWeight: 1, Limited: true, InitialStock: 1, Fallback: true}},
			want: "must be unlimited",
		},
		{
			name: "duplicate kind",
			defs: []PrizeDefinition{
				{Kind: "a", BaseWeight: 1, Fallback: true},
				{Kind: "a", BaseWeight: 1},
			},
			want: "duplicated",
		},
		{
			name: "negative weight",
			defs: []PrizeDefinition{{Kind: "a", BaseWeight: -1, Fallback: true}},
			want: "weight must be >= 0",
		},
		{
			name: "limited without stock",
			defs: []PrizeDefinition{
				{Kind: "a", BaseWeight: 1, Limited: true},
				{Kind: "b", BaseWeight: 1, Fallback: true},
			},
			want: "stock must be > 0",
		},
		{
			name: "missing kind",
			defs: []PrizeDefinition{{BaseWeight: 1, Fallback: true}},
			want: "kind is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.defs)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}
