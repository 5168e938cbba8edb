package domain

import (
	"errors"
	"slices"
	"time"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"

	// AuthorityPrefix is prepended to every role when a user is turned into a Principal.
	AuthorityPrefix = "ROLE_"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenInvalid       = errors.New("invalid token")
)

// User models an account held in the user directory.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Enabled      bool      `json:"enabled"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser builds an enabled account with no roles.
func NewUser(username, email, passwordHash string, now time.Time) *User {
	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Enabled:      true,
		Roles:        []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (u *User) IsEnabled() bool { return u.Enabled }

// NormalizeRoles returns roles sorted and without duplicates or blanks. Role
// order carries no meaning, so storing one canonical order keeps token
// authorities stable.
func NormalizeRoles(roles []string) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r != "" {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Principal is the identity handed to the HTTP security layer: it is what
// tokens are minted from and validated against.
type Principal struct {
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Authorities  []string `json:"authorities"`
	Disabled     bool     `json:"disabled"`
}

// Principal maps the stored account into its security view.
func (u *User) Principal() *Principal {
	roles := NormalizeRoles(u.Roles)
	authorities := make([]string, 0, len(roles))
	for _, r := range roles {
		authorities = append(authorities, AuthorityPrefix+r)
	}
	return &Principal{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Authorities:  authorities,
		Disabled:     !u.Enabled,
	}
}

// HasAuthority reports whether the principal was granted authority.
func (p *Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}
