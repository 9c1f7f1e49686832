package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionRevoker remembers logged-out session IDs until their tokens expire.
// Key format: revoked:<session_id>
type SessionRevoker struct {
	client *redis.Client
}

// NewSessionRevoker creates a SessionRevoker wrapping the given Redis client.
func NewSessionRevoker(client *redis.Client) *SessionRevoker {
	return &SessionRevoker{client: client}
}

// Revoke marks the session as ended for ttl. A non-positive ttl is a no-op
// since the token has already expired.
func (r *SessionRevoker) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, r.key(sessionID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsRevoked reports whether the session was logged out.
func (r *SessionRevoker) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(sessionID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (r *SessionRevoker) key(sessionID string) string {
	return "revoked:" + sessionID
}
