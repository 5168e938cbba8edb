package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/pkg/result"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgRegisterFailed     = "could not register user"
	tokenType             = "Bearer"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type registerRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Email    string `json:"email"    validate:"notblank,email"`
	Password string `json:"password" validate:"notblank,maxbytes=72"`
}

type loginResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

type registerResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type meResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	return result.Match(res,
		func(token string) error {
			return c.JSON(http.StatusOK, loginResponse{Token: token, Type: tokenType})
		},
		func(err error) error {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				return c.JSON(http.StatusUnauthorized, errorResponse{Error: msgInvalidCredentials})
			}
			return err
		},
	)
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	res := h.authService.Register(c.Request().Context(), req.Username, req.Email, req.Password)
	return result.Match(res,
		func(u *domain.User) error {
			return c.JSON(http.StatusCreated, registerResponse{ID: u.ID, Username: u.Username})
		},
		func(err error) error {
			if errors.Is(err, domain.ErrUserExists) {
				return c.JSON(http.StatusBadRequest, errorResponse{Error: msgRegisterFailed})
			}
			return err
		},
	)
}

// Me returns the authenticated principal.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Username: p.Username, Authorities: p.Authorities})
}
