package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

// AuthService orchestrates the authentication flows: it composes the
// credential store, token service and audit recorder so that every
// operation, however it ends, leaves exactly one audit event behind.
// The audit write is fire-and-forget and never changes the returned result.
type AuthService struct {
	creds    ports.CredentialStore
	tokens   ports.TokenService
	audit    ports.AuditRecorder
	notifier ports.PasswordNotifier
	throttle ports.ResetThrottle // optional; nil disables reset throttling
	log      zerolog.Logger
}

func NewAuthService(
	creds ports.CredentialStore,
	tokens ports.TokenService,
	audit ports.AuditRecorder,
	notifier ports.PasswordNotifier,
	throttle ports.ResetThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		creds:    creds,
		tokens:   tokens,
		audit:    audit,
		notifier: notifier,
		throttle: throttle,
		log:      log,
	}
}

// Login verifies credentials and issues a session token carrying the
// account's canonical role. RequestedRole is never used for issuance; it is
// only echoed into the audit trail. Failures are audited with the raw input
// email since no account may have been resolved.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.Session, error) {
	var (
		session *ports.Session
		opErr   error
		details string
	)

	actorRole := in.RequestedRole
	acct, err := s.creds.Verify(ctx, in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrAccountInactive):
		// The caller sees the generic failure; the trail keeps the truth.
		details = "account inactive"
		opErr = domain.ErrInvalidCredentials
	case err != nil:
		details = "credential verification failed"
		opErr = err
	default:
		actorRole = acct.Role
		role, rerr := domain.NormalizeRole(acct.Role)
		if rerr != nil {
			details = fmt.Sprintf("stored role %q not recognized", acct.Role)
			opErr = domain.ErrUnknownRole
			break
		}
		token, terr := s.tokens.Issue(acct, role)
		if terr != nil {
			details = "token issuance failed"
			opErr = fmt.Errorf("login: issue token: %w", terr)
			break
		}
		if err := s.creds.TouchLastAccess(ctx, acct.Email); err != nil {
			s.log.Warn().Err(err).Str("email", acct.Email).Msg("last-access update failed")
		}
		if in.RequestedRole != "" {
			details = fmt.Sprintf("login page role %q", in.RequestedRole)
		}
		session = &ports.Session{Token: token, Account: acct}
	}

	s.audit.Record(s.event(domain.ActionLogin, in.Email, actorRole, details, in.SourceAddr, opErr == nil))
	if opErr != nil {
		return nil, opErr
	}
	return session, nil
}

// Register creates a new staff account. The raw role spelling must resolve
// through the synonym table; unknown roles are a hard failure, never a
// silent default.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	var (
		acct    *domain.Account
		opErr   error
		details string
	)

	role, err := domain.NormalizeRole(in.Role)
	if err != nil {
		details = fmt.Sprintf("role %q not recognized", in.Role)
		opErr = err
	} else {
		// New accounts are stored with the canonical spelling.
		acct, opErr = s.creds.Register(ctx, ports.RegisterAccountInput{
			Name:  in.Name,
			Email: in.Email,
			Role:  string(role),
		}, in.Password)
		if opErr != nil {
			details = "account creation failed"
		}
	}

	s.audit.Record(s.event(domain.ActionRegister, in.Email, in.Role, details, in.SourceAddr, opErr == nil))
	if opErr != nil {
		return nil, opErr
	}
	return acct, nil
}

// ChangePassword re-verifies the current password before swapping the hash.
func (s *AuthService) ChangePassword(ctx context.Context, in ports.ChangePasswordInput) error {
	opErr := s.creds.ChangePassword(ctx, in.Email, in.CurrentPassword, in.NewPassword)

	details := ""
	if errors.Is(opErr, domain.ErrPasswordMismatch) {
		details = "current password rejected"
	} else if opErr != nil {
		details = "password change failed"
	}

	s.audit.Record(s.event(domain.ActionChangePassword, in.Email, "", details, in.SourceAddr, opErr == nil))
	return opErr
}

// ResetPassword stores a fresh random password and hands the plaintext to
// the notifier for out-of-band delivery. A delivery failure does not undo
// the reset and does not fail the operation; the plaintext never appears in
// logs, audit details, or the response.
func (s *AuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("reset throttle unavailable, proceeding")
		} else if !allowed {
			s.audit.Record(s.event(domain.ActionResetPassword, in.Email, "", "reset throttled", in.SourceAddr, false))
			return domain.ErrTooManyResets
		}
	}

	var details string
	acct, plaintext, opErr := s.creds.ResetPassword(ctx, in.Email)
	if opErr != nil {
		details = "password reset failed"
	} else {
		if s.throttle != nil {
			if err := s.throttle.Mark(ctx, in.Email); err != nil {
				s.log.Warn().Err(err).Msg("reset throttle mark failed")
			}
		}
		details = "new password generated"
		if err := s.notifier.DeliverNewPassword(ctx, acct.Email, acct.Name, plaintext); err != nil {
			s.log.Error().Err(err).Str("email", acct.Email).Msg("new password delivery failed")
			details = "new password generated; delivery failed"
		}
	}

	s.audit.Record(s.event(domain.ActionResetPassword, in.Email, "", details, in.SourceAddr, opErr == nil))
	return opErr
}

// Logout records the end of a session. With stateless tokens there is
// nothing to revoke: a previously issued token stays valid until expiry.
func (s *AuthService) Logout(ctx context.Context, in ports.LogoutInput) error {
	s.audit.Record(s.event(domain.ActionLogout, in.Email, in.Role, "", in.SourceAddr, true))
	return nil
}

func (s *AuthService) event(action domain.AuditAction, email, rawRole, details, source string, success bool) domain.AuditEvent {
	return domain.AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		ActorEmail: email,
		ActorRole:  rawRole,
		Action:     action,
		Details:    details,
		Module:     domain.AuditModuleAuth,
		Success:    success,
		SourceAddr: source,
	}
}
