package ports

import (
	"context"

	"github.com/99minutos/auth-service/internal/core/domain"
)

// AuditRecorder accepts audit events without blocking the caller.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}

// AuditRepository persists audit events.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AttemptLimiter throttles repeated failed logins per username. Every login
// first takes an attempt with Acquire, so concurrent guesses cannot overrun
// the limit.
type AttemptLimiter interface {
	// Acquire counts one attempt and reports whether it may proceed.
	Acquire(ctx context.Context, username string) (bool, error)
	// Release gives back an attempt that ended without a credential check.
	Release(ctx context.Context, username string) error
	// Reset clears the counter after a successful login.
	Reset(ctx context.Context, username string) error
}
