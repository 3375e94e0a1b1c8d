package ports

import (
	"context"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// RegisterAccountInput carries the fields needed to create a new account.
// Role holds the raw spelling supplied by the caller; the orchestrator
// normalizes it before the store is reached.
type RegisterAccountInput struct {
	Name  string
	Email string
	Role  string
}

// CredentialStore owns account credentials: it is the only component that
// reads or writes password hashes.
type CredentialStore interface {
	// Verify checks email+password. It returns domain.ErrInvalidCredentials
	// for an unknown email or a wrong password (indistinguishable to avoid
	// an account oracle) and domain.ErrAccountInactive for a disabled
	// account; the orchestrator collapses the latter before it reaches an
	// external caller.
	Verify(ctx context.Context, email, password string) (*domain.Account, error)
	Register(ctx context.Context, input RegisterAccountInput, password string) (*domain.Account, error)
	ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error
	// ResetPassword stores a fresh random password and returns its plaintext
	// exactly once, for out-of-band delivery, along with the affected
	// account (hash scrubbed).
	ResetPassword(ctx context.Context, email string) (*domain.Account, string, error)
	// TouchLastAccess stamps the account's last-access time. Login is the
	// only caller; failures are non-fatal to the login itself.
	TouchLastAccess(ctx context.Context, email string) error
}
