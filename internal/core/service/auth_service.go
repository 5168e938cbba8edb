package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/99minutos/auth-service/internal/core/domain"
	"github.com/99minutos/auth-service/internal/core/ports"
	"github.com/99minutos/auth-service/internal/pkg/metrics"
	"github.com/99minutos/auth-service/pkg/result"
)

// AuthService implements login, registration and principal lookup on top of
// the user directory, a password hasher and a token provider.
type AuthService struct {
	users   ports.UserRepository
	hasher  ports.PasswordHasher
	tokens  ports.TokenProvider
	limiter ports.AttemptLimiter
	audit   ports.AuditRecorder
	log     zerolog.Logger
	now     func() time.Time
}

// NewAuthService wires the service. limiter and audit are optional and may be nil.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenProvider,
	limiter ports.AttemptLimiter,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		log:     log,
		now:     time.Now,
	}
}

// Login returns a signed token for valid credentials of an enabled account.
// Unknown users, wrong passwords, disabled accounts and throttled usernames
// all fail with domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) result.Result[string, error] {
	if !s.acquire(ctx, username) {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultBlocked).Inc()
		s.record(username, domain.EventLogin, domain.OutcomeFailure, "too many attempts")
		return result.Failure[string](domain.ErrInvalidCredentials)
	}

	user := s.findForLogin(ctx, username)
	user = result.Filter(user, s.passwordMatches(password), domain.ErrInvalidCredentials)
	user = result.Filter(user, (*domain.User).IsEnabled, domain.ErrInvalidCredentials)
	token := result.FlatMap(user, s.issueToken)

	s.observeLogin(ctx, username, token)
	return token
}

// Register creates an enabled account without roles. The existence check is
// a fast path only; the repository's uniqueness guarantee decides races.
func (s *AuthService) Register(ctx context.Context, username, email, password string) result.Result[*domain.User, error] {
	available := s.ensureAvailable(ctx, username)
	hash := result.FlatMap(available, func(struct{}) result.Result[string, error] {
		return result.From(s.hasher.Hash(password))
	})
	user := result.Map(hash, func(h string) *domain.User {
		return domain.NewUser(username, email, h, s.now().UTC())
	})
	saved := result.FlatMap(user, s.save(ctx))

	s.observeRegister(username, saved)
	return saved
}

// LoadUserByUsername returns the security principal for username.
func (s *AuthService) LoadUserByUsername(ctx context.Context, username string) (*domain.Principal, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return u.Principal(), nil
}

func (s *AuthService) findForLogin(ctx context.Context, username string) result.Result[*domain.User, error] {
	u, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return result.Failure[*domain.User](domain.ErrInvalidCredentials)
	case err != nil:
		return result.Failure[*domain.User](fmt.Errorf("find user: %w", err))
	}
	return result.Success[*domain.User, error](u)
}

func (s *AuthService) passwordMatches(password string) func(*domain.User) bool {
	return func(u *domain.User) bool {
		return s.hasher.Matches(password, u.PasswordHash)
	}
}

func (s *AuthService) issueToken(u *domain.User) result.Result[string, error] {
	return result.From(s.tokens.GenerateToken(u.Principal()))
}

func (s *AuthService) ensureAvailable(ctx context.Context, username string) result.Result[struct{}, error] {
	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return result.Failure[struct{}](domain.ErrUserExists)
	case errors.Is(err, domain.ErrUserNotFound):
		return result.Success[struct{}, error](struct{}{})
	default:
		return result.Failure[struct{}](fmt.Errorf("find user: %w", err))
	}
}

func (s *AuthService) save(ctx context.Context) func(*domain.User) result.Result[*domain.User, error] {
	return func(u *domain.User) result.Result[*domain.User, error] {
		saved, err := s.users.Save(ctx, u)
		if err != nil {
			return result.Failure[*domain.User](fmt.Errorf("save user: %w", err))
		}
		return result.Success[*domain.User, error](saved)
	}
}

func (s *AuthService) observeLogin(ctx context.Context, username string, res result.Result[string, error]) {
	err, failed := res.Err()
	switch {
	case !failed:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		s.resetAttempts(ctx, username)
		s.record(username, domain.EventLogin, domain.OutcomeSuccess, "")
		s.log.Info().Str("username", username).Msg("login succeeded")
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		s.record(username, domain.EventLogin, domain.OutcomeFailure, err.Error())
		s.log.Info().Str("username", username).Msg("login rejected")
	default:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.releaseAttempt(ctx, username)
		s.record(username, domain.EventLogin, domain.OutcomeError, err.Error())
		s.log.Error().Err(err).Str("username", username).Msg("login failed")
	}
}

func (s *AuthService) observeRegister(username string, res result.Result[*domain.User, error]) {
	err, failed := res.Err()
	switch {
	case !failed:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
		s.record(username, domain.EventRegister, domain.OutcomeSuccess, "")
		s.log.Info().Str("username", username).Msg("user registered")
	case errors.Is(err, domain.ErrUserExists):
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		s.record(username, domain.EventRegister, domain.OutcomeFailure, domain.ErrUserExists.Error())
		s.log.Info().Str("username", username).Msg("registration rejected: username taken")
	default:
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.record(username, domain.EventRegister, domain.OutcomeError, err.Error())
		s.log.Error().Err(err).Str("username", username).Msg("registration failed")
	}
}

// acquire takes one login attempt. Limiter outages let the attempt through so
// Redis trouble never locks users out.
func (s *AuthService) acquire(ctx context.Context, username string) bool {
	if s.limiter == nil {
		return true
	}
	allowed, err := s.limiter.Acquire(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("attempt limiter check failed, continuing")
		return true
	}
	return allowed
}

func (s *AuthService) releaseAttempt(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Release(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to release login attempt")
	}
}

func (s *AuthService) resetAttempts(ctx context.Context, username string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("failed to reset login attempts")
	}
}

func (s *AuthService) record(username string, typ domain.AuthEventType, outcome domain.AuthOutcome, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuthEvent{
		Username:  username,
		Type:      typ,
		Outcome:   outcome,
		Reason:    reason,
		Timestamp: s.now().UTC(),
	})
}
