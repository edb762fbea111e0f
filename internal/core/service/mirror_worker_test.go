package service

import (
	"testing"
	"time"

	"github.com/rl1809/prize-roulette/internal/core/domain"
)

func TestMirrorWorker_AppliesUntilClosed(t *testing.T) {
	queue := make(chan domain.StockCommit, 3)
	mirror := &mockMirror{}

	queue <- domain.StockCommit{SpinID: "s1", Kind: "capri", CommittedAt: time.Now()}
	queue <- domain.StockCommit{SpinID: "s2", Kind: "cgv", CommittedAt: time.Now()}
	close(queue)

	done := make(chan struct{})
	go func() {
		MirrorWorker(0, queue, mirror)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after queue closed")
	}

	if len(mirror.applied) != 2 {
		t.Fatalf("expected 2 commits applied, got %d", len(mirror.applied))
	}
	if mirror.applied[0].SpinID != "s1" || mirror.applied[1].SpinID != "s2" {
		t.Errorf("unexpected order: %+v", mirror.applied)
	}
}

func TestMirrorWorker_ContinuesAfterFailure(t *testing.T) {
	queue := make(chan domain.StockCommit, 2)
	mirror := &mockMirror{fail: true}

	queue <- domain.StockCommit{SpinID: "s1", Kind: "capri"}
	queue <- domain.StockCommit{SpinID: "s2", Kind: "capri"}
	close(queue)

	MirrorWorker(1, queue, mirror)

	if len(queue) != 0 {
		t.Errorf("expected queue drained, %d left", len(queue))
	}
}
