package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// UserRepository is the user directory.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// Save inserts a user without ID (assigning one) or replaces an existing
	// one. Implementations must enforce username uniqueness and report
	// violations as domain.ErrUserExists.
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
