package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/api/middleware"
	"github.com/99minutos/auth-service/internal/core/domain"
)

// errorResponse is the JSON body of every error reply written by handlers.
type errorResponse struct {
	Error string `json:"error"`
}

// ctxPrincipal returns the principal injected by the Auth middleware. A
// missing principal means the route was mounted without the middleware.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || p == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return p, nil
}
