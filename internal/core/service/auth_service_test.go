package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/sp23/transit-system/internal/core/domain"
)

var testSecret = []byte("test-secret")

type authFixture struct {
	svc      *AuthService
	users    *stubUserRepo
	sessions *stubSessionStore
	throttle *stubThrottle
	audit    *stubAudit
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:    newStubUserRepo(),
		sessions: newStubSessionStore(),
		throttle: newStubThrottle(),
		audit:    &stubAudit{},
	}
	f.svc = NewAuthService(f.users, f.sessions, f.throttle, f.audit, AuthOptions{
		Secret:      testSecret,
		SessionTTL:  time.Hour,
		MaxFailures: 3,
		Lockout:     time.Minute,
	}, zerolog.Nop())
	return f
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.users.addUser("bob", "Password123!", domain.RoleUser)

	res, err := f.svc.Login(context.Background(), "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token, got empty")
	}
	if res.User == nil || res.User.ID != bob.ID {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	if len(f.sessions.sessions) != 1 {
		t.Fatalf("expected one session, got %d", len(f.sessions.sessions))
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(res.Token, claims, func(*jwt.Token) (interface{}, error) {
		return testSecret, nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if _, ok := f.sessions.sessions[claims.ID]; !ok {
		t.Fatalf("token id %q does not name a stored session", claims.ID)
	}
	if claims.Subject != "1" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != domain.AuditLogin {
		t.Fatalf("unexpected audit trail: %v", got)
	}
}

func TestAuthService_Login_CaseInsensitiveUserName(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("galkadi", "Password123!", domain.RoleAdmin)

	res, err := f.svc.Login(context.Background(), "GALKADI", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.User.UserName != "galkadi" {
		t.Fatalf("expected stored user name, got %q", res.User.UserName)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("sue", "Password123!", domain.RoleUser)

	cases := []struct {
		name     string
		userName string
		password string
	}{
		{"wrong password", "sue", "nope"},
		{"unknown user", "mallory", "Password123!"},
		{"empty user", "", "Password123!"},
		{"empty password", "sue", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Login(context.Background(), tc.userName, tc.password); !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
	if len(f.sessions.sessions) != 0 {
		t.Fatalf("no session should be created on failure")
	}
}

func TestAuthService_Login_Lockout(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.svc.Login(ctx, "bob", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := f.svc.Login(ctx, "Bob", "Password123!"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected locked account to reject correct password, got %v", err)
	}

	f.throttle.counts = map[string]int64{}
	if _, err := f.svc.Login(ctx, "bob", "Password123!"); err != nil {
		t.Fatalf("expected login after lockout expiry, got %v", err)
	}
}

func TestAuthService_Login_SuccessResetsFailures(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	_, _ = f.svc.Login(ctx, "bob", "wrong")
	_, _ = f.svc.Login(ctx, "bob", "wrong")
	if _, err := f.svc.Login(ctx, "bob", "Password123!"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if n := f.throttle.counts["bob"]; n != 0 {
		t.Fatalf("expected failures reset, got %d", n)
	}
}

func TestAuthService_Login_UnknownUserNotThrottled(t *testing.T) {
	f := newAuthFixture(t)
	for i := 0; i < 5; i++ {
		_, _ = f.svc.Login(context.Background(), "ghost", "x")
	}
	if len(f.throttle.counts) != 0 {
		t.Fatalf("unknown users should not be counted: %v", f.throttle.counts)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.findErr = errors.New("db down")

	_, err := f.svc.Login(context.Background(), "bob", "Password123!")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
}

func TestAuthService_Login_AuditFailureIgnored(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	f.audit.err = errors.New("mongo down")

	if _, err := f.svc.Login(context.Background(), "bob", "Password123!"); err != nil {
		t.Fatalf("audit failure must not fail login: %v", err)
	}
}

func TestAuthService_ResolveIdentity(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	id, err := f.svc.ResolveIdentity(ctx, res.Token)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if id.UserID != bob.ID || id.UserName != "bob" || !id.HasRole(domain.RoleUser) {
		t.Fatalf("unexpected identity: %+v", id)
	}
	if id.SessionID == "" {
		t.Fatalf("expected session id on identity")
	}
}

func TestAuthService_ResolveIdentity_Anonymous(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{ID: "nope", Subject: "1"})
	wrongKey, _ := forged.SignedString([]byte("other-secret"))
	unknownSession, _ := forged.SignedString(testSecret)

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not-a-token",
		"wrong key":       wrongKey,
		"unknown session": unknownSession,
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			id, err := f.svc.ResolveIdentity(ctx, token)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !id.IsAnonymous() {
				t.Fatalf("expected anonymous, got %+v", id)
			}
		})
	}

	// valid token still works alongside the failures above
	if id, _ := f.svc.ResolveIdentity(ctx, res.Token); id.IsAnonymous() {
		t.Fatalf("expected valid token to resolve")
	}
}

func TestAuthService_ResolveIdentity_Expired(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	f.svc.now = func() time.Time { return time.Now().UTC().Add(2 * time.Hour) }
	id, err := f.svc.ResolveIdentity(ctx, res.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.IsAnonymous() {
		t.Fatalf("expected expired session to resolve anonymous")
	}
}

func TestAuthService_ResolveIdentity_StoreError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	f.sessions.getErr = errors.New("redis down")

	if _, err := f.svc.ResolveIdentity(ctx, res.Token); err == nil {
		t.Fatalf("expected store error to surface")
	}
}

func TestAuthService_Logout(t *testing.T) {
	f := newAuthFixture(t)
	f.users.addUser("bob", "Password123!", domain.RoleUser)
	ctx := context.Background()

	res, err := f.svc.Login(ctx, "bob", "Password123!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	id, _ := f.svc.ResolveIdentity(ctx, res.Token)

	if err := f.svc.Logout(ctx, id); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	again, err := f.svc.ResolveIdentity(ctx, res.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !again.IsAnonymous() {
		t.Fatalf("token must not resolve after logout")
	}

	if err := f.svc.Logout(ctx, domain.Anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous logout, got %v", err)
	}
}

func TestAuthService_CurrentUser(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.users.addUser("bob", "Password123!", domain.RoleUser)

	if _, err := f.svc.CurrentUser(context.Background(), domain.Anonymous); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	u, err := f.svc.CurrentUser(context.Background(), bob.Identity("s1"))
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if u.UserName != "bob" {
		t.Fatalf("unexpected user: %+v", u)
	}
}
