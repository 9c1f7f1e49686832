package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

// Context keys set by Session.
const (
	sessionKey = "session"
	tokenKey   = "session_token"
)

// Session resolves the bearer token, if any, into a domain.Session and stores
// it on the context. Missing, invalid and revoked tokens yield an anonymous
// session; the request always continues.
func Session(auth ports.AuthService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			SetSession(c, domain.Anonymous())

			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return next(c)
			}

			st, err := auth.Resolve(c.Request().Context(), raw)
			switch {
			case err == nil:
				SetSession(c, st.Session)
				c.Set(tokenKey, st)
			case errors.Is(err, domain.ErrUnauthenticated):
				// expired, tampered or logged out
			default:
				log.Warn().Err(err).Msg("session lookup failed, continuing anonymously")
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// SetSession stores s as the request session.
func SetSession(c echo.Context, s domain.Session) {
	c.Set(sessionKey, s)
}

// SessionFrom returns the session stored by Session, or an anonymous one.
func SessionFrom(c echo.Context) domain.Session {
	s, ok := c.Get(sessionKey).(domain.Session)
	if !ok {
		return domain.Anonymous()
	}
	return s
}

// TokenFrom returns the verified token of the request, or nil.
func TokenFrom(c echo.Context) *ports.SessionToken {
	st, _ := c.Get(tokenKey).(*ports.SessionToken)
	return st
}
