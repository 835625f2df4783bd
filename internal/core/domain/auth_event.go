package domain

import "time"

// AuthOutcome is the result recorded for a login attempt.
type AuthOutcome string

const (
	AuthOutcomeSuccess AuthOutcome = "success"
	AuthOutcomeFailure AuthOutcome = "failure"
)

// AuthEvent is an audit record of a login attempt. It never carries the
// password or the issued token.
type AuthEvent struct {
	Username  string
	Outcome   AuthOutcome
	Reason    string
	RemoteIP  string
	Timestamp time.Time
}
