package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrAccountInactive = errors.New("account is inactive")
var ErrAccountNotFound = errors.New("account not found")
var ErrEmailExists = errors.New("email already registered")
var ErrPasswordMismatch = errors.New("current password does not match")
var ErrTooManyResets = errors.New("too many password reset requests")

// Account is the identity and credential record for a staff member.
// The password hash never leaves the credential store; the raw Role string
// keeps whatever spelling the document carries and is only interpreted
// through NormalizeRole.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessAt time.Time `json:"last_access_at,omitzero"`
}
