package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/pkg/metrics"
)

// Context keys set by Auth.
const (
	PrincipalKey = "principal"
	UsernameKey  = "username"
)

// Auth authenticates bearer tokens. The token subject is resolved to a
// principal through users, the token is validated against that principal,
// and the principal is stored in the context under PrincipalKey.
func Auth(tokens ports.TokenProvider, users ports.UserDetailsService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			username, err := tokens.UsernameFromToken(raw)
			if err != nil {
				return reject()
			}

			principal, err := users.LoadUserByUsername(c.Request().Context(), username)
			if err != nil {
				if errors.Is(err, domain.ErrUserNotFound) {
					return reject()
				}
				return err
			}

			if principal.Disabled || !tokens.ValidateToken(raw, principal) {
				return reject()
			}

			metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
			c.Set(PrincipalKey, principal)
			c.Set(UsernameKey, principal.Username)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return strings.TrimSpace(parts[1]), nil
}

func reject() error {
	metrics.TokenValidationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
}
