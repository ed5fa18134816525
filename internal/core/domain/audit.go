package domain

import "time"

// AuthEventKind names an authentication outcome worth keeping.
type AuthEventKind string

const (
	EventRegistered      AuthEventKind = "registered"
	EventLoginSucceeded  AuthEventKind = "login_succeeded"
	EventLoginFailed     AuthEventKind = "login_failed"
	EventLogout          AuthEventKind = "logout"
	EventProfileUpdated  AuthEventKind = "profile_updated"
	EventPasswordChanged AuthEventKind = "password_changed"
)

// AuthEvent is one entry of the authentication audit trail.
type AuthEvent struct {
	Kind       AuthEventKind
	AccountID  int64 // zero when the account is unknown
	Email      string
	OccurredAt time.Time
}
