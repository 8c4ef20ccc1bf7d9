package domain

import "time"

// AccountEventType names an auditable credential outcome.
type AccountEventType string

const (
	EventRegistered     AccountEventType = "registered"
	EventLoggedIn       AccountEventType = "logged_in"
	EventLoginFailed    AccountEventType = "login_failed"
	EventProfileUpdated AccountEventType = "profile_updated"
	EventTokenRefreshed AccountEventType = "token_refreshed"
)

// AccountEvent is an audit record of something that happened to an account.
// UserID is empty when the email did not resolve to a user.
type AccountEvent struct {
	ID         string
	Type       AccountEventType
	Email      string
	UserID     string
	OccurredAt time.Time
}
