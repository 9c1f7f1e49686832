package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/api/middleware"
	"github.com/fpress/content-system/internal/core/domain"
)

// sessionOf returns the request session built by the Session middleware.
func sessionOf(c echo.Context) domain.Session {
	return middleware.SessionFrom(c)
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}

// errorResponse documents the error envelope rendered by the HTTP error handler.
type errorResponse struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems,omitempty"`
}
