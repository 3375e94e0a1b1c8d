package ports

import "context"

// ResetThrottle rate-limits password resets per email. Implementations are
// advisory: when the backing store is unreachable the orchestrator proceeds
// without throttling rather than failing the reset.
type ResetThrottle interface {
	// Allow reports whether a reset for this email may proceed.
	Allow(ctx context.Context, email string) (bool, error)
	// Mark records that a reset was performed for this email.
	Mark(ctx context.Context, email string) error
}
