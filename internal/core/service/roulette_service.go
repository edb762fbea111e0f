package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/logger"

	"github.com/rl1809/prize-roulette/internal/core/domain"
	"github.com/rl1809/prize-roulette/internal/port"
)

var (
	ErrAlreadySpun           = errors.New("participant already spun")
	ErrParticipantIDRequired = errors.New("participant id required")
)

type RouletteConfig struct {
	// SpinDelay is a cosmetic pause taken before the draw starts.
	SpinDelay time.Duration
	// Guard enforces one spin per participant when set.
	Guard port.ParticipationGuard
	// CommitQueueSize > 0 publishes every stock decrement on CommitQueue.
	CommitQueueSize int
}

// RouletteService is the entry point used by the transports: it applies the
// participant limit and cosmetic delay around an Engine spin.
type RouletteService struct {
	engine      *Engine
	guard       port.ParticipationGuard
	spinDelay   time.Duration
	commitQueue chan domain.StockCommit
}

func NewRouletteService(engine *Engine, cfg RouletteConfig) *RouletteService {
	s := &RouletteService{
		engine:    engine,
		guard:     cfg.Guard,
		spinDelay: cfg.SpinDelay,
	}
	if cfg.CommitQueueSize > 0 {
		s.commitQueue = make(chan domain.StockCommit, cfg.CommitQueueSize)
	}
	return s
}

func (s *RouletteService) Spin(ctx context.Context, participantID string) (domain.DrawResult, error) {
	if s.guard != nil {
		if participantID == "" {
			return domain.DrawResult{}, ErrParticipantIDRequired
		}

		ok, err := s.guard.ClaimSpin(ctx, participantID)
		if err != nil {
			return domain.DrawResult{}, fmt.Errorf("participation check failed: %w", err)
		}
		if !ok {
			return domain.DrawResult{}, ErrAlreadySpun
		}
	}

	result, err := s.spin(ctx)
	if err != nil {
		if s.guard != nil {
			// give the participant their spin back; use a fresh context since ctx may be done
			rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if rerr := s.guard.ReleaseSpin(rctx, participantID); rerr != nil {
				logger.Errorf("release spin for %s: %v", participantID, rerr)
			}
			cancel()
		}
		return domain.DrawResult{}, err
	}

	if s.commitQueue != nil && !result.Substituted {
		if def, ok := s.engine.Catalog().Lookup(result.Kind); ok && def.Limited {
			s.commitQueue <- domain.StockCommit{
				SpinID:      result.SpinID,
				Kind:        result.Kind,
				CommittedAt: result.SpunAt,
			}
		}
	}

	return result, nil
}

func (s *RouletteService) spin(ctx context.Context) (domain.DrawResult, error) {
	if s.spinDelay > 0 {
		timer := time.NewTimer(s.spinDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return domain.DrawResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	result, err := s.engine.Spin(ctx)
	if err != nil {
		return domain.DrawResult{}, fmt.Errorf("spin: %w", err)
	}
	return result, nil
}

func (s *RouletteService) Prizes(ctx context.Context) ([]domain.PrizeStatus, error) {
	prizes, err := s.engine.Prizes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list prizes: %w", err)
	}
	return prizes, nil
}

// GetCommitQueue returns nil when the service was built without a queue.
func (s *RouletteService) GetCommitQueue() <-chan domain.StockCommit {
	return s.commitQueue
}

func (s *RouletteService) Close() {
	if s.commitQueue != nil {
		close(s.commitQueue)
	}
}
