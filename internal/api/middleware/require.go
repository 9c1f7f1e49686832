package middleware

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
)

// LoginPath is where unauthenticated callers are sent.
const LoginPath = "/login"

// RequireAuth rejects anonymous sessions with 401 and a Location header
// pointing at the login endpoint with the original URI as "next".
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !SessionFrom(c).Authenticated {
				return LoginRequired(c)
			}
			return next(c)
		}
	}
}

// RequireAdmin defers every non-admin session to the login endpoint.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := SessionFrom(c)
			if !s.Authenticated || !s.Admin {
				return LoginRequired(c)
			}
			return next(c)
		}
	}
}

// LoginRequired sets the login Location header and returns a 401 error.
func LoginRequired(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderLocation, LoginPath+"?next="+url.QueryEscape(c.Request().RequestURI))
	return echo.NewHTTPError(http.StatusUnauthorized, "login required")
}
