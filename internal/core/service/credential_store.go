package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

const generatedPasswordLength = 12

// verifyBurnHash is compared against when no account matches the email, so
// an unknown email costs roughly the same as a wrong password.
var verifyBurnHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// CredentialStore implements ports.CredentialStore over an account
// repository. It is the only component that touches password hashes;
// accounts it returns have the hash scrubbed.
type CredentialStore struct {
	repo  ports.AccountRepository
	cost  int
	locks keyedMutex
}

func NewCredentialStore(repo ports.AccountRepository) *CredentialStore {
	return &CredentialStore{repo: repo, cost: bcrypt.DefaultCost}
}

func (s *CredentialStore) Verify(ctx context.Context, email, password string) (*domain.Account, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	acct, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(verifyBurnHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("verify credentials: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !acct.Active {
		return nil, domain.ErrAccountInactive
	}

	return scrub(acct), nil
}

func (s *CredentialStore) Register(ctx context.Context, input ports.RegisterAccountInput, password string) (*domain.Account, error) {
	email := normalizeEmail(input.Email)
	if input.Name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	unlock := s.locks.lock(email)
	defer unlock()

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("register account: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return scrub(created), nil
}

func (s *CredentialStore) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	email = normalizeEmail(email)
	if email == "" || currentPassword == "" || newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	unlock := s.locks.lock(email)
	defer unlock()

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("change password: %w", err)
	}
	if !acct.Active {
		return domain.ErrAccountInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrPasswordMismatch
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("change password: hash password: %w", err)
	}

	return s.repo.SwapPasswordHash(ctx, email, acct.PasswordHash, string(newHash))
}

func (s *CredentialStore) ResetPassword(ctx context.Context, email string) (*domain.Account, string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, "", domain.ErrAccountNotFound
	}

	unlock := s.locks.lock(email)
	defer unlock()

	acct, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, "", domain.ErrAccountNotFound
		}
		return nil, "", fmt.Errorf("reset password: %w", err)
	}

	plaintext, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return nil, "", fmt.Errorf("reset password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("reset password: hash password: %w", err)
	}

	if err := s.repo.SwapPasswordHash(ctx, email, acct.PasswordHash, string(hash)); err != nil {
		return nil, "", err
	}
	return scrub(acct), plaintext, nil
}

func (s *CredentialStore) TouchLastAccess(ctx context.Context, email string) error {
	return s.repo.UpdateLastAccess(ctx, normalizeEmail(email), time.Now().UTC())
}

// scrub returns a copy of the account without the password hash.
func scrub(acct *domain.Account) *domain.Account {
	clone := *acct
	clone.PasswordHash = ""
	return &clone
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const passwordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generatePassword returns a random password over an alphabet with the
// ambiguous characters (0/O, 1/l/I) removed, since the result is delivered
// to a human by email.
func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	for i, b := range buf {
		buf[i] = passwordAlphabet[int(b)%len(passwordAlphabet)]
	}
	return string(buf), nil
}

// keyedMutex serializes credential mutations per account email. Entries are
// never evicted; the key space is bounded by the staff roster.
type keyedMutex struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
