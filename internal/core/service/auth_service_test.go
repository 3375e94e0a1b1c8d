package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/clinic-system/internal/core/domain"
	"github.com/visioncare/clinic-system/internal/core/ports"
)

type captureAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *captureAudit) Record(e domain.AuditEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *captureAudit) all() []domain.AuditEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.AuditEvent, len(c.events))
	copy(out, c.events)
	return out
}

func (c *captureAudit) last(t *testing.T) domain.AuditEvent {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) == 0 {
		t.Fatalf("no audit events recorded")
	}
	return c.events[len(c.events)-1]
}

type stubNotifier struct {
	mu        sync.Mutex
	delivered []string // plaintexts handed over
	err       error
}

func (n *stubNotifier) DeliverNewPassword(_ context.Context, email, name, plaintext string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, plaintext)
	return n.err
}

type stubThrottle struct {
	allow    bool
	allowErr error
	marked   int
}

func (th *stubThrottle) Allow(context.Context, string) (bool, error) { return th.allow, th.allowErr }
func (th *stubThrottle) Mark(context.Context, string) error          { th.marked++; return nil }

type authFixture struct {
	repo     *stubAccountRepo
	creds    *CredentialStore
	tokens   *TokenService
	audit    *captureAudit
	notifier *stubNotifier
	svc      *AuthService
}

func newAuthFixture(throttle ports.ResetThrottle) *authFixture {
	f := &authFixture{
		repo:     newStubAccountRepo(),
		audit:    &captureAudit{},
		notifier: &stubNotifier{},
	}
	f.creds = newTestCredentialStore(f.repo)
	f.tokens = NewTokenService("secret", time.Hour)
	f.svc = NewAuthService(f.creds, f.tokens, f.audit, f.notifier, throttle, zerolog.Nop())
	return f
}

func TestAuthService_RegisterLogin_RoundTrip(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()

	acct, err := f.svc.Register(ctx, ports.RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "Administrador",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if acct.Role != string(domain.RoleAdmin) {
		t.Fatalf("new accounts should store the canonical role, got %q", acct.Role)
	}

	session, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	claims, err := f.tokens.Validate(session.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != acct.ID {
		t.Fatalf("token subject %q, want account id %q", claims.Subject, acct.ID)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("token role %q, want admin", claims.Role)
	}

	events := f.audit.all()
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events (register, login), got %d", len(events))
	}
	if events[0].Action != domain.ActionRegister || !events[0].Success {
		t.Fatalf("unexpected register event: %+v", events[0])
	}
	if events[1].Action != domain.ActionLogin || !events[1].Success {
		t.Fatalf("unexpected login event: %+v", events[1])
	}
	for _, e := range events {
		if e.Module != domain.AuditModuleAuth {
			t.Fatalf("event module %q, want %q", e.Module, domain.AuditModuleAuth)
		}
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "Administrador"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	before := len(f.audit.all())

	_, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "wrong"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	events := f.audit.all()
	if len(events) != before+1 {
		t.Fatalf("expected exactly one new audit event, got %d", len(events)-before)
	}
	e := events[len(events)-1]
	if e.Success {
		t.Fatalf("failed login audited as success")
	}
	if e.ActorEmail != "ana@x.com" {
		t.Fatalf("failed login must carry the raw input email, got %q", e.ActorEmail)
	}
}

func TestAuthService_Login_UnknownEmail_OneFailedEvent(t *testing.T) {
	f := newAuthFixture(nil)

	_, err := f.svc.Login(context.Background(), ports.LoginInput{Email: "ghost@x.com", Password: "p"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	events := f.audit.all()
	if len(events) != 1 {
		t.Fatalf("expected exactly one audit event, got %d", len(events))
	}
	if events[0].Success || events[0].ActorEmail != "ghost@x.com" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestAuthService_Login_RequestedRoleDoesNotOverride(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Lu", Email: "lu@x.com", Password: "p1", Role: "Optometrista"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// The login page may assert any role; the token carries the stored one.
	session, err := f.svc.Login(ctx, ports.LoginInput{Email: "lu@x.com", Password: "p1", RequestedRole: "admin"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	claims, err := f.tokens.Validate(session.Token)
	if err != nil {
		t.Fatalf("token validate failed: %v", err)
	}
	if claims.Role != domain.RoleOptometrist {
		t.Fatalf("requested role leaked into the token: got %q", claims.Role)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	f.repo.accounts["ana@x.com"].Active = false

	// The caller only sees the generic failure.
	_, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected collapsed ErrInvalidCredentials, got %v", err)
	}

	e := f.audit.last(t)
	if e.Success || e.Details != "account inactive" {
		t.Fatalf("audit should keep the true reason, got %+v", e)
	}
}

func TestAuthService_Login_UnknownStoredRole(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	// Simulate a legacy document with a spelling outside the synonym table.
	f.repo.accounts["ana@x.com"].Role = "doctor"

	_, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"})
	if err != domain.ErrUnknownRole {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	e := f.audit.last(t)
	if e.Success {
		t.Fatalf("unknown-role login audited as success")
	}
	if e.ActorRole != "doctor" {
		t.Fatalf("audit must keep the raw role, got %q", e.ActorRole)
	}
}

func TestAuthService_Login_UpdatesLastAccess(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"}); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if f.repo.accounts["ana@x.com"].LastAccessAt.IsZero() {
		t.Fatalf("last access not stamped on login")
	}
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	f := newAuthFixture(nil)

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{Name: "Bo", Email: "bo@x.com", Password: "p", Role: "doctor"})
	if err != domain.ErrUnknownRole {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	events := f.audit.all()
	if len(events) != 1 || events[0].Success {
		t.Fatalf("expected one failed audit event, got %+v", events)
	}
	if events[0].ActorRole != "doctor" {
		t.Fatalf("audit must keep the raw role, got %q", events[0].ActorRole)
	}
}

func TestAuthService_ChangePassword_WrongCurrent(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err := f.svc.ChangePassword(ctx, ports.ChangePasswordInput{Email: "ana@x.com", CurrentPassword: "bad", NewPassword: "p2"})
	if err != domain.ErrPasswordMismatch {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
	if e := f.audit.last(t); e.Action != domain.ActionChangePassword || e.Success {
		t.Fatalf("unexpected audit event: %+v", e)
	}

	// Hash untouched: the old password still logs in.
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"}); err != nil {
		t.Fatalf("old password should still work: %v", err)
	}
}

func TestAuthService_ResetPassword_NotifierFailureDoesNotRevert(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	f.notifier.err = errors.New("smtp down")

	if err := f.svc.ResetPassword(ctx, ports.ResetPasswordInput{Email: "ana@x.com"}); err != nil {
		t.Fatalf("reset must not fail on delivery errors: %v", err)
	}

	// Hash was swapped regardless.
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password still works after reset")
	}

	e := f.audit.last(t)
	if e.Action != domain.ActionResetPassword || !e.Success {
		t.Fatalf("reset should audit as success, got %+v", e)
	}
	// The plaintext is handed to the notifier only, never to the trail.
	if len(f.notifier.delivered) != 1 {
		t.Fatalf("expected one delivery attempt, got %d", len(f.notifier.delivered))
	}
	if e.Details == "" || e.Details == f.notifier.delivered[0] {
		t.Fatalf("audit details must not carry the plaintext: %+v", e)
	}
}

func TestAuthService_ResetPassword_Throttled(t *testing.T) {
	th := &stubThrottle{allow: false}
	f := newAuthFixture(th)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	err := f.svc.ResetPassword(ctx, ports.ResetPasswordInput{Email: "ana@x.com"})
	if err != domain.ErrTooManyResets {
		t.Fatalf("expected ErrTooManyResets, got %v", err)
	}
	if e := f.audit.last(t); e.Success {
		t.Fatalf("throttled reset audited as success")
	}

	// Old password unaffected.
	if _, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"}); err != nil {
		t.Fatalf("throttled reset must not touch the hash: %v", err)
	}
}

func TestAuthService_ResetPassword_ThrottleUnavailableProceeds(t *testing.T) {
	th := &stubThrottle{allow: false, allowErr: errors.New("redis down")}
	f := newAuthFixture(th)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := f.svc.ResetPassword(ctx, ports.ResetPasswordInput{Email: "ana@x.com"}); err != nil {
		t.Fatalf("reset should degrade gracefully when the throttle is down: %v", err)
	}
}

func TestAuthService_Logout_DoesNotInvalidateToken(t *testing.T) {
	f := newAuthFixture(nil)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, ports.RegisterInput{Name: "Ana", Email: "ana@x.com", Password: "p1", Role: "admin"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	session, err := f.svc.Login(ctx, ports.LoginInput{Email: "ana@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := f.svc.Logout(ctx, ports.LogoutInput{Email: "ana@x.com", Role: "admin"}); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if e := f.audit.last(t); e.Action != domain.ActionLogout || !e.Success {
		t.Fatalf("unexpected logout event: %+v", e)
	}

	// Stateless tokens: logout is an audit fact, not a revocation.
	if _, err := f.tokens.Validate(session.Token); err != nil {
		t.Fatalf("token should remain valid after logout: %v", err)
	}
}
