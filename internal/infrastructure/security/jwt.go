package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// DefaultExpiration is the token lifetime used when none is configured.
const DefaultExpiration = 24 * time.Hour

const minSecretBytes = 32

var ErrWeakSecret = errors.New("jwt secret must be at least 256 bits")

// Claims is the payload of every token issued by JWTProvider.
type Claims struct {
	Authorities string `json:"authorities"`
	jwt.RegisteredClaims
}

// JWTProvider signs and verifies HMAC tokens. The key and lifetime are fixed
// at construction and safe for concurrent use.
type JWTProvider struct {
	key        []byte
	method     *jwt.SigningMethodHMAC
	expiration time.Duration
	now        func() time.Time
}

// NewJWTProvider picks the HMAC strength from the secret length: HS512 from
// 64 bytes, HS384 from 48, HS256 otherwise. Secrets under 32 bytes are
// rejected. A zero expiration is kept (tokens are born expired); a negative
// one falls back to DefaultExpiration.
func NewJWTProvider(secret string, expiration time.Duration) (*JWTProvider, error) {
	key := []byte(secret)
	if len(key) < minSecretBytes {
		return nil, fmt.Errorf("%w: got %d bits", ErrWeakSecret, len(key)*8)
	}
	if expiration < 0 {
		expiration = DefaultExpiration
	}
	return &JWTProvider{
		key:        key,
		method:     methodForKey(key),
		expiration: expiration,
		now:        time.Now,
	}, nil
}

func methodForKey(key []byte) *jwt.SigningMethodHMAC {
	switch {
	case len(key) >= 64:
		return jwt.SigningMethodHS512
	case len(key) >= 48:
		return jwt.SigningMethodHS384
	default:
		return jwt.SigningMethodHS256
	}
}

// WithClock returns a copy of p that reads the current time from now.
func (p *JWTProvider) WithClock(now func() time.Time) *JWTProvider {
	clone := *p
	clone.now = now
	return &clone
}

// Algorithm reports the JWS algorithm in use, e.g. "HS256".
func (p *JWTProvider) Algorithm() string { return p.method.Alg() }

// GenerateToken signs a token for principal with its authorities joined by commas.
func (p *JWTProvider) GenerateToken(principal *domain.Principal) (string, error) {
	now := p.now()
	claims := Claims{
		Authorities: strings.Join(principal.Authorities, ","),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(p.method, claims).SignedString(p.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken reports whether token is correctly signed, belongs to
// principal and has not expired.
func (p *JWTProvider) ValidateToken(token string, principal *domain.Principal) bool {
	if principal == nil {
		return false
	}
	claims, err := p.Claims(token)
	if err != nil {
		return false
	}
	return claims.Subject == principal.Username && p.now().Before(claims.ExpiresAt.Time)
}

// UsernameFromToken returns the subject of a verified token.
func (p *JWTProvider) UsernameFromToken(token string) (string, error) {
	return ClaimFromToken(p, token, func(c *Claims) string { return c.Subject })
}

// Claims parses and verifies token. Any failure wraps domain.ErrTokenInvalid.
func (p *JWTProvider) Claims(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return p.key, nil },
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTokenInvalid, err)
	}
	return claims, nil
}

// ClaimFromToken verifies token and extracts one value from its claims.
func ClaimFromToken[T any](p *JWTProvider, token string, resolve func(*Claims) T) (T, error) {
	claims, err := p.Claims(token)
	if err != nil {
		var zero T
		return zero, err
	}
	return resolve(claims), nil
}
