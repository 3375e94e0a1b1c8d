package ports

import (
	"time"

	"github.com/visioncare/clinic-system/internal/core/domain"
)

// TokenClaims is the verified content of a session token.
type TokenClaims struct {
	Subject   string
	Email     string
	Role      domain.Role
	ExpiresAt time.Time
}

// TokenService issues and validates stateless session tokens. Validate is a
// pure function of the token and the clock; it never consults the account
// store, so an issued token stays valid until its embedded expiry.
type TokenService interface {
	Issue(account *domain.Account, role domain.Role) (string, error)
	Validate(token string) (TokenClaims, error)
}
