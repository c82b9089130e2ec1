package domain

import "time"

// AuthEventKind names a security-relevant action recorded in the audit trail.
type AuthEventKind string

const (
	EventLoginSucceeded  AuthEventKind = "login_succeeded"
	EventLoginFailed     AuthEventKind = "login_failed"
	EventLoginThrottled  AuthEventKind = "login_throttled"
	EventRegistered      AuthEventKind = "registered"
	EventProfileUpdated  AuthEventKind = "profile_updated"
	EventPasswordChanged AuthEventKind = "password_changed"
	EventLoggedOut       AuthEventKind = "logged_out"
	EventOwnershipDenied AuthEventKind = "ownership_denied"
)

// AuthEvent is one audit record. AccountID is 0 when the actor is unknown
// (e.g. a failed login for an unregistered email).
type AuthEvent struct {
	Kind       AuthEventKind `json:"kind"`
	AccountID  int64         `json:"account_id,omitempty"`
	Email      string        `json:"email,omitempty"`
	RemoteIP   string        `json:"remote_ip,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
