package events

// EventType enumerates account lifecycle events.
type EventType string

const (
	EventUserSignedUp    EventType = "user.signed_up"
	EventUserDeactivated EventType = "user.deactivated"
	EventPasswordReset   EventType = "user.password_reset"
)

// Event describes something that happened to an account.
type Event struct {
	Type    EventType
	UserID  string
	Email   string
	Payload map[string]any
}
