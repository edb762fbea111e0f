package storage

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func TestMemorySeedStock_OnlyWhenAbsent(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	seeded, _ := adapter.SeedStock(ctx, "capri", 20)
	if !seeded {
		t.Error("expected first seed to write")
	}

	seeded, _ = adapter.SeedStock(ctx, "capri", 5)
	if seeded {
		t.Error("expected second seed to be skipped")
	}

	remaining, ok, _ := adapter.ReadStock(ctx, "capri")
	if !ok || remaining != 20 {
		t.Errorf("expected stock 20, got %d ok=%v", remaining, ok)
	}
}

func TestMemoryReadStock_Absent(t *testing.T) {
	_, ok, err := NewMemoryAdapter().ReadStock(context.Background(), "cgv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent counter")
	}
}

func TestMemoryDecrementStock_StopsAtZero(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	adapter.SetStock(ctx, "cgv", 1)

	if ok, _ := adapter.DecrementStock(ctx, "cgv"); !ok {
		t.Error("expected first decrement to succeed")
	}
	if ok, _ := adapter.DecrementStock(ctx, "cgv"); ok {
		t.Error("expected second decrement to fail")
	}
	if ok, _ := adapter.DecrementStock(ctx, "unknown"); ok {
		t.Error("expected decrement of absent counter to fail")
	}

	remaining, _, _ := adapter.ReadStock(ctx, "cgv")
	if remaining != 0 {
		t.Errorf("expected stock 0, got %d", remaining)
	}
}

func TestMemoryDecrementStock_Concurrent(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()
	adapter.SetStock(ctx, "capri", 20)

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := adapter.DecrementStock(ctx, "capri"); ok {
				successCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 20 {
		t.Errorf("expected 20 successes, got %d", successCount.Load())
	}
}

func TestMemoryClaimSpin(t *testing.T) {
	ctx := context.Background()
	adapter := NewMemoryAdapter()

	if ok, _ := adapter.ClaimSpin(ctx, "p1"); !ok {
		t.Error("expected first claim to succeed")
	}
	if ok, _ := adapter.ClaimSpin(ctx, "p1"); ok {
		t.Error("expected second claim to fail")
	}
	if ok, _ := adapter.ClaimSpin(ctx, "p2"); !ok {
		t.Error("expected claim for another participant to succeed")
	}

	adapter.ReleaseSpin(ctx, "p1")

	if ok, _ := adapter.ClaimSpin(ctx, "p1"); !ok {
		t.Error("expected claim to succeed after release")
	}
}
