package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

type stubAuthService struct {
	resolveFn func(ctx context.Context, token string) (*ports.SessionToken, error)
}

func (s *stubAuthService) Login(context.Context, string, string) (string, *domain.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) Logout(context.Context, string, time.Time) error { return nil }

func (s *stubAuthService) Resolve(ctx context.Context, token string) (*ports.SessionToken, error) {
	return s.resolveFn(ctx, token)
}

func runSession(t *testing.T, header string, stub *stubAuthService) (domain.Session, *ports.SessionToken) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got domain.Session
	var tok *ports.SessionToken
	handler := Session(stub, zerolog.Nop())(func(c echo.Context) error {
		got = SessionFrom(c)
		tok = TokenFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return got, tok
}

func TestSession_ValidToken(t *testing.T) {
	stub := &stubAuthService{resolveFn: func(_ context.Context, token string) (*ports.SessionToken, error) {
		if token != "good" {
			t.Fatalf("unexpected token %q", token)
		}
		return &ports.SessionToken{ID: "jti", Session: domain.Session{Username: "alice", Authenticated: true}}, nil
	}}

	s, tok := runSession(t, "Bearer good", stub)
	if s.Username != "alice" || !s.Authenticated {
		t.Fatalf("unexpected session %+v", s)
	}
	if tok == nil || tok.ID != "jti" {
		t.Fatalf("token not stored: %+v", tok)
	}
}

func TestSession_FallsBackToAnonymous(t *testing.T) {
	reject := &stubAuthService{resolveFn: func(context.Context, string) (*ports.SessionToken, error) {
		return nil, domain.ErrUnauthenticated
	}}
	broken := &stubAuthService{resolveFn: func(context.Context, string) (*ports.SessionToken, error) {
		return nil, errors.New("redis down")
	}}

	cases := []struct {
		name   string
		header string
		stub   *stubAuthService
	}{
		{"no header", "", reject},
		{"wrong scheme", "Basic abc", reject},
		{"invalid token", "Bearer bad", reject},
		{"revocation store down", "Bearer good", broken},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, tok := runSession(t, tc.header, tc.stub)
			if s != domain.Anonymous() || tok != nil {
				t.Fatalf("expected anonymous session, got %+v %+v", s, tok)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/pages?x=1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(sessionKey, domain.Anonymous())

	called := false
	err := RequireAuth()(func(c echo.Context) error {
		called = true
		return nil
	})(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if called {
		t.Fatalf("next must not run")
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login?next=%2Fadmin%2Fpages%3Fx%3D1" {
		t.Fatalf("unexpected Location %q", loc)
	}
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name    string
		session domain.Session
		allowed bool
	}{
		{"anonymous", domain.Anonymous(), false},
		{"user", domain.Session{Username: "bob", Authenticated: true}, false},
		{"admin", domain.Session{Username: "root", Authenticated: true, Admin: true}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/admin/users", nil), httptest.NewRecorder())
			c.Set(sessionKey, tc.session)

			called := false
			err := RequireAdmin()(func(c echo.Context) error {
				called = true
				return nil
			})(c)
			if called != tc.allowed {
				t.Fatalf("called = %v, want %v (err %v)", called, tc.allowed, err)
			}
		})
	}
}
