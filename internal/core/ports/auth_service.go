package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/pkg/result"
)

// AuthService carries the login and registration use cases. Domain failures
// (domain.ErrInvalidCredentials, domain.ErrUserExists) are returned as the
// failure side of the Result, as are infrastructure errors.
type AuthService interface {
	Login(ctx context.Context, username, password string) result.Result[string, error]
	Register(ctx context.Context, username, email, password string) result.Result[*domain.User, error]
}

// UserDetailsService resolves a username to the Principal used by the HTTP
// security layer.
type UserDetailsService interface {
	// LoadUserByUsername wraps domain.ErrUserNotFound when the user is absent.
	LoadUserByUsername(ctx context.Context, username string) (*domain.Principal, error)
}
