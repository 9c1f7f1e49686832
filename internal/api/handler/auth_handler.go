package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/api/metrics"
	"github.com/fpress/content-system/internal/api/middleware"
	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	userService ports.UserService
}

func NewAuthHandler(authService ports.AuthService, userService ports.UserService) *AuthHandler {
	return &AuthHandler{authService: authService, userService: userService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type firstUseRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Confirm  string `json:"confirm"  validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
	Next  string       `json:"next,omitempty"`
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        next  query     string        false  "Where to go after login"
// @Param        body  body      loginRequest  true   "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user, Next: safeNext(c.QueryParam("next"))})
}

// Logout revokes the current session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	st := middleware.TokenFrom(c)
	if st == nil {
		return domain.ErrUnauthenticated
	}
	if err := h.authService.Logout(c.Request().Context(), st.ID, st.ExpiresAt); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// FirstUse creates the first admin account of an empty site.
//
// @Summary      Create the first admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      firstUseRequest  true  "Admin credentials"
// @Success      201   {object}  domain.User
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/firstuse [post]
func (h *AuthHandler) FirstUse(c echo.Context) error {
	var req firstUseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.userService.FirstUse(c.Request().Context(), req.Username, req.Password, req.Confirm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// safeNext keeps only same-site absolute paths.
func safeNext(next string) string {
	if len(next) == 0 || next[0] != '/' || (len(next) > 1 && (next[1] == '/' || next[1] == '\\')) {
		return "/"
	}
	return next
}
