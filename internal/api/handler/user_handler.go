package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
)

// UserHandler exposes principal lookups to administrators.
type UserHandler struct {
	users ports.UserDetailsService
}

func NewUserHandler(users ports.UserDetailsService) *UserHandler {
	return &UserHandler{users: users}
}

// Get handles GET /api/admin/users/:username.
//
// @Summary      Look up a user's principal
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.Principal
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/admin/users/{username} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := h.users.LoadUserByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, p)
}
