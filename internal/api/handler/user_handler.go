package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/library-system/internal/core/domain"
	"github.com/bookshelf/library-system/internal/core/ports"
)

// UserHandler serves member administration and self-service endpoints.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me returns the caller's own profile.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me [get]
func (h *UserHandler) Me(c echo.Context, principal domain.AuthorizedUser) error {
	return c.JSON(http.StatusOK, toUserResponse(principal.User))
}

// ChangePassword handles PUT /api/v1/users/me/password.
//
// @Summary      Change own password
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  updatePasswordRequest  true  "Current and new password"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users/me/password [put]
func (h *UserHandler) ChangePassword(c echo.Context, principal domain.AuthorizedUser) error {
	var req updatePasswordRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdatePassword(c.Request().Context(), principal, domain.UpdateUserPassword{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// List handles GET /api/v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usersResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c echo.Context, _ domain.AuthorizedUser) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUsersResponse(users))
}

// Create handles POST /api/v1/users (admin only).
//
// @Summary      Register a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c echo.Context, principal domain.AuthorizedUser) error {
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), principal, domain.CreateUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(*user))
}

// Delete handles DELETE /api/v1/users/:user_id (admin only).
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Success      200
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{user_id} [delete]
func (h *UserHandler) Delete(c echo.Context, principal domain.AuthorizedUser) error {
	var params userPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), principal, domain.DeleteUser{UserID: params.UserID}); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// ChangeRole handles PUT /api/v1/users/:user_id/role (admin only).
//
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Security     BearerAuth
// @Param        user_id  path  string             true  "User ID"
// @Param        body     body  updateRoleRequest  true  "New role"
// @Success      200
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/users/{user_id}/role [put]
func (h *UserHandler) ChangeRole(c echo.Context, principal domain.AuthorizedUser) error {
	var params userPathParams
	if err := bindPath(c, &params); err != nil {
		return err
	}
	var req updateRoleRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	if err := h.service.UpdateRole(c.Request().Context(), principal, domain.UpdateUserRole{UserID: params.UserID, Role: role}); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
