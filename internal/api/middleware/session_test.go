package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sp23/transit-system/internal/core/domain"
	"github.com/sp23/transit-system/internal/core/ports"
)

type stubAuthService struct {
	resolveFn func(ctx context.Context, token string) (domain.Identity, error)
}

func (s *stubAuthService) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubAuthService) ResolveIdentity(ctx context.Context, token string) (domain.Identity, error) {
	return s.resolveFn(ctx, token)
}

func (s *stubAuthService) Logout(context.Context, domain.Identity) error { return nil }

func (s *stubAuthService) CurrentUser(context.Context, domain.Identity) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

const cookieName = "transit.session"

func runSession(t *testing.T, stub *stubAuthService, cookie *http.Cookie) (domain.Identity, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen domain.Identity
	err := Session(stub, cookieName)(func(c echo.Context) error {
		seen = IdentityFrom(c)
		return nil
	})(c)
	return seen, err
}

func TestSession_ResolvesCookie(t *testing.T) {
	stub := &stubAuthService{resolveFn: func(_ context.Context, token string) (domain.Identity, error) {
		if token != "tok" {
			t.Fatalf("unexpected token %q", token)
		}
		return domain.Identity{UserID: 3, UserName: "bob", SessionID: "s"}, nil
	}}

	id, err := runSession(t, stub, &http.Cookie{Name: cookieName, Value: "tok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UserID != 3 {
		t.Fatalf("expected identity to be set, got %+v", id)
	}
}

func TestSession_NoCookieIsAnonymous(t *testing.T) {
	stub := &stubAuthService{resolveFn: func(context.Context, string) (domain.Identity, error) {
		t.Fatalf("resolver must not run without a cookie")
		return domain.Anonymous, nil
	}}

	id, err := runSession(t, stub, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !id.IsAnonymous() {
		t.Fatalf("expected anonymous, got %+v", id)
	}
}

func TestSession_StoreErrorAborts(t *testing.T) {
	boom := errors.New("redis down")
	stub := &stubAuthService{resolveFn: func(context.Context, string) (domain.Identity, error) {
		return domain.Anonymous, boom
	}}

	if _, err := runSession(t, stub, &http.Cookie{Name: cookieName, Value: "tok"}); !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestIdentityFrom_DefaultsAnonymous(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if !IdentityFrom(c).IsAnonymous() {
		t.Fatalf("expected anonymous without middleware")
	}
}
