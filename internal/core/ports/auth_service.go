package ports

import (
	"context"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// LoginInput carries a login attempt. RequestedRole is the role the login
// page was opened for; it is informational only (recorded in the audit
// trail) and never overrides the account's stored role.
type LoginInput struct {
	Email         string
	Password      string
	RequestedRole string
	SourceAddr    string
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	Account *domain.Account
}

// RegisterInput carries a registration request. Role accepts any spelling
// from the synonym table.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Role       string
	SourceAddr string
}

// ChangePasswordInput carries a password change request.
type ChangePasswordInput struct {
	Email           string
	CurrentPassword string
	NewPassword     string
	SourceAddr      string
}

// ResetPasswordInput carries a password reset request.
type ResetPasswordInput struct {
	Email      string
	SourceAddr string
}

// LogoutInput identifies the session being closed. Role carries the raw
// claim string for the audit trail.
type LogoutInput struct {
	Email      string
	Role       string
	SourceAddr string
}

// AuthService orchestrates authentication flows. Every call, successful or
// not, produces exactly one audit event; the audit step never changes the
// returned result.
type AuthService interface {
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	ChangePassword(ctx context.Context, input ChangePasswordInput) error
	// ResetPassword triggers out-of-band delivery of the new password; the
	// plaintext is never part of the returned result.
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	Logout(ctx context.Context, input LogoutInput) error
}
