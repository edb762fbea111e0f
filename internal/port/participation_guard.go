package port

import "context"

type ParticipationGuard interface {
	// ClaimSpin marks the participant as having spun, returns false if already marked
	ClaimSpin(ctx context.Context, participantID string) (bool, error)

	// ReleaseSpin removes the mark (used when the spin itself failed)
	ReleaseSpin(ctx context.Context, participantID string) error
}
