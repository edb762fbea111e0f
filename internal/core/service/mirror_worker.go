package service

import (
	"context"
	"time"

	"github.com/google/logger"

	"github.com/rl1809/prize-roulette/internal/core/domain"
	"github.com/rl1809/prize-roulette/internal/port"
)

const mirrorTimeout = 5 * time.Second

// MirrorWorker drains committed decrements into the durable mirror until the
// queue is closed. A failed mirror write is logged; the award already stands.
func MirrorWorker(id int, queue <-chan domain.StockCommit, mirror port.StockMirror) {
	for commit := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)

		if err := mirror.ApplyCommit(ctx, commit); err != nil {
			logger.Errorf("worker %d: failed to mirror spin %s (%s): %v", id, commit.SpinID, commit.Kind, err)
		} else {
			logger.Infof("worker %d: mirrored spin %s (%s)", id, commit.SpinID, commit.Kind)
		}

		cancel()
	}
}
