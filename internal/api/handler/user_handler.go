package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fpress/content-system/internal/core/domain"
	"github.com/fpress/content-system/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userRequest struct {
	Username    string `json:"username"     validate:"required,max=64"`
	Password    string `json:"password"     validate:"max=72"`
	Email       string `json:"email"        validate:"omitempty,email"`
	DisplayName string `json:"display_name" validate:"max=128"`
	Bio         string `json:"bio"`
	Avatar      string `json:"avatar"`
	IsAdmin     *bool  `json:"is_admin"`
	IsActive    *bool  `json:"is_active"`
}

func (r userRequest) toInput() ports.UserInput {
	return ports.UserInput{
		Username:    r.Username,
		Password:    r.Password,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Bio:         r.Bio,
		Avatar:      r.Avatar,
		IsAdmin:     r.IsAdmin,
		IsActive:    r.IsActive,
	}
}

type deleteUserResponse struct {
	PagesReassigned int64  `json:"pages_reassigned"`
	ReassignedTo    string `json:"reassigned_to"`
}

// List returns all accounts.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Router       /admin/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context(), sessionOf(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Create adds an account.
//
// @Summary      Create a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User fields"
// @Success      201   {object}  domain.User
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /admin/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.Password == "" {
		return domain.NewValidationError("password is required")
	}

	user, err := h.users.Create(c.Request().Context(), sessionOf(c), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update edits an account. An empty password keeps the current one.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User ID"
// @Param        body  body      userRequest  true  "User fields"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.users.Update(c.Request().Context(), sessionOf(c), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Deactivate blocks an account from logging in.
//
// @Summary      Deactivate a user
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admin/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c echo.Context) error {
	if err := h.users.Deactivate(c.Request().Context(), sessionOf(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete removes an account and hands its content to the caller.
//
// @Summary      Delete a user
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  deleteUserResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /admin/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	session := sessionOf(c)
	n, err := h.users.HardDelete(c.Request().Context(), session, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteUserResponse{PagesReassigned: n, ReassignedTo: session.Username})
}
