package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/auth-service/internal/core/domain"
)

const testSecret = "MySecretKeyForJWTTokenGenerationMustBeAtLeast256BitsLong"

var issuedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestProvider(t *testing.T, secret string, ttl time.Duration, now time.Time) *JWTProvider {
	t.Helper()
	p, err := NewJWTProvider(secret, ttl)
	if err != nil {
		t.Fatalf("NewJWTProvider: %v", err)
	}
	return p.WithClock(fixedClock(now))
}

func alice() *domain.Principal {
	return &domain.Principal{Username: "alice", Authorities: []string{"ROLE_ADMIN", "ROLE_USER"}}
}

func TestJWTProvider_GenerateAndValidate(t *testing.T) {
	p := newTestProvider(t, testSecret, time.Hour, issuedAt)

	token, err := p.GenerateToken(alice())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if !p.ValidateToken(token, alice()) {
		t.Fatalf("expected freshly issued token to validate")
	}

	claims, err := p.Claims(token)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.Authorities != "ROLE_ADMIN,ROLE_USER" {
		t.Fatalf("unexpected authorities %q", claims.Authorities)
	}
	if !claims.IssuedAt.Time.Equal(issuedAt) || !claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)) {
		t.Fatalf("unexpected iat/exp: %v / %v", claims.IssuedAt, claims.ExpiresAt)
	}
}

func TestJWTProvider_ValidateToken_OtherSubject(t *testing.T) {
	p := newTestProvider(t, testSecret, time.Hour, issuedAt)
	token, _ := p.GenerateToken(alice())

	if p.ValidateToken(token, &domain.Principal{Username: "mallory"}) {
		t.Fatalf("token must not validate for another user")
	}
	if p.ValidateToken(token, nil) {
		t.Fatalf("token must not validate for a nil principal")
	}
}

func TestJWTProvider_ZeroExpirationIsExpired(t *testing.T) {
	p := newTestProvider(t, testSecret, 0, issuedAt)

	token, err := p.GenerateToken(alice())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if p.ValidateToken(token, alice()) {
		t.Fatalf("token with zero lifetime must be invalid at issuance")
	}
	if _, err := p.UsernameFromToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestJWTProvider_ExpiresAfterLifetime(t *testing.T) {
	p := newTestProvider(t, testSecret, time.Minute, issuedAt)
	token, _ := p.GenerateToken(alice())

	later := p.WithClock(fixedClock(issuedAt.Add(2 * time.Minute)))
	if later.ValidateToken(token, alice()) {
		t.Fatalf("token must be invalid after expiry")
	}
}

func TestJWTProvider_RealClock(t *testing.T) {
	p, err := NewJWTProvider(testSecret, DefaultExpiration)
	if err != nil {
		t.Fatalf("NewJWTProvider: %v", err)
	}
	token, _ := p.GenerateToken(alice())
	if !p.ValidateToken(token, alice()) {
		t.Fatalf("expected token to validate with the wall clock")
	}
}

func TestJWTProvider_WrongSecret(t *testing.T) {
	signer := newTestProvider(t, testSecret, time.Hour, issuedAt)
	verifier := newTestProvider(t, strings.Repeat("x", len(testSecret)), time.Hour, issuedAt)

	token, _ := signer.GenerateToken(alice())
	if verifier.ValidateToken(token, alice()) {
		t.Fatalf("token signed with another secret must not validate")
	}
	if _, err := verifier.UsernameFromToken(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestJWTProvider_UsernameFromToken(t *testing.T) {
	p := newTestProvider(t, testSecret, time.Hour, issuedAt)
	token, _ := p.GenerateToken(alice())

	username, err := p.UsernameFromToken(token)
	if err != nil || username != "alice" {
		t.Fatalf("expected alice, got %q (%v)", username, err)
	}

	for _, bad := range []string{"", "not-a-token", token + "tampered"} {
		if _, err := p.UsernameFromToken(bad); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", bad, err)
		}
		if p.ValidateToken(bad, alice()) {
			t.Fatalf("malformed token %q must not validate", bad)
		}
	}
}

func TestClaimFromToken(t *testing.T) {
	p := newTestProvider(t, testSecret, time.Hour, issuedAt)
	token, _ := p.GenerateToken(alice())

	authorities, err := ClaimFromToken(p, token, func(c *Claims) []string {
		return strings.Split(c.Authorities, ",")
	})
	if err != nil {
		t.Fatalf("ClaimFromToken: %v", err)
	}
	if len(authorities) != 2 || authorities[0] != "ROLE_ADMIN" {
		t.Fatalf("unexpected authorities %v", authorities)
	}
}

func TestJWTProvider_RejectsOtherAlgorithm(t *testing.T) {
	long := strings.Repeat("k", 64)
	p := newTestProvider(t, long, time.Hour, issuedAt)
	if p.Algorithm() != "HS512" {
		t.Fatalf("expected HS512 for a 512-bit key, got %s", p.Algorithm())
	}

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
		},
	})
	signed, err := forged.SignedString([]byte(long))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if p.ValidateToken(signed, alice()) {
		t.Fatalf("token with unexpected algorithm must not validate")
	}
}

func TestNewJWTProvider_Secrets(t *testing.T) {
	if _, err := NewJWTProvider("too-short", time.Hour); !errors.Is(err, ErrWeakSecret) {
		t.Fatalf("expected ErrWeakSecret, got %v", err)
	}

	cases := map[int]string{32: "HS256", 48: "HS384", 64: "HS512"}
	for size, alg := range cases {
		p, err := NewJWTProvider(strings.Repeat("s", size), time.Hour)
		if err != nil {
			t.Fatalf("size %d: %v", size, err)
		}
		if p.Algorithm() != alg {
			t.Fatalf("size %d: expected %s, got %s", size, alg, p.Algorithm())
		}
	}
}

func TestNewJWTProvider_NegativeExpirationUsesDefault(t *testing.T) {
	p := newTestProvider(t, testSecret, -time.Second, issuedAt)
	token, _ := p.GenerateToken(alice())

	claims, err := p.Claims(token)
	if err != nil {
		t.Fatalf("Claims: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(issuedAt.Add(DefaultExpiration)) {
		t.Fatalf("expected default lifetime, got exp %v", claims.ExpiresAt)
	}
}
