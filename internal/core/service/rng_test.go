package service

import "testing"

func TestDefaultRNG_InRange(t *testing.T) {
	rng := DefaultRNG()
	for i := 0; i < 1000; i++ {
		f := rng.Float64()
		if f < 0 || f >= 1 {
			t.Fatalf("sample %v outside [0,1)", f)
		}
	}
}

func TestSeededRNG_Reproducible(t *testing.T) {
	a := NewSeededRNG(7)
	b := NewSeededRNG(7)

	for i := 0; i < 100; i++ {
		if x, y := a.Float64(), b.Float64(); x != y {
			t.Fatalf("sample %d differs: %v vs %v", i, x, y)
		}
	}
}
