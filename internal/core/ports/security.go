package ports

import "github.com/99minutos/auth-service/internal/core/domain"

// PasswordHasher is a one-way, salted password hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Matches(plaintext, hash string) bool
}

// TokenProvider issues and checks signed identity tokens.
type TokenProvider interface {
	GenerateToken(principal *domain.Principal) (string, error)
	// ValidateToken never fails loudly: every problem yields false.
	ValidateToken(token string, principal *domain.Principal) bool
	// UsernameFromToken returns an error for malformed, mis-signed or expired tokens.
	UsernameFromToken(token string) (string, error)
}
