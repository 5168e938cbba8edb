package domain

import "time"

// AuthEventType names the operation an AuthEvent records.
type AuthEventType string

const (
	EventLogin    AuthEventType = "login"
	EventRegister AuthEventType = "register"
)

// AuthOutcome is the result class of an audited operation.
type AuthOutcome string

const (
	OutcomeSuccess AuthOutcome = "success"
	OutcomeFailure AuthOutcome = "failure"
	OutcomeError   AuthOutcome = "error"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Username  string
	Type      AuthEventType
	Outcome   AuthOutcome
	Reason    string // empty on success
	Timestamp time.Time
}
