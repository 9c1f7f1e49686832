package ports

import (
	"context"
	"time"

	"github.com/fpress/content-system/internal/core/domain"
)

// SessionToken is a verified bearer token.
type SessionToken struct {
	ID        string
	Session   domain.Session
	ExpiresAt time.Time
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Logout(ctx context.Context, sessionID string, expiresAt time.Time) error
	// Resolve verifies a bearer token and rejects revoked sessions.
	Resolve(ctx context.Context, token string) (*SessionToken, error)
}

// SessionRevoker remembers ended sessions until their tokens expire.
type SessionRevoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// Authenticator checks a username and password pair.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
}
