package ports

import (
	"context"
	"time"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// AccountRepository defines persistence operations for staff accounts.
// Emails passed in are already normalized (lowercased, trimmed) by the
// credential store.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// SwapPasswordHash replaces the stored hash only when it still equals
	// oldHash (compare-and-swap), so concurrent password mutations on the
	// same account cannot silently overwrite each other. It returns
	// domain.ErrPasswordMismatch when the stored hash has moved on.
	SwapPasswordHash(ctx context.Context, email, oldHash, newHash string) error
	UpdateLastAccess(ctx context.Context, email string, at time.Time) error
}
