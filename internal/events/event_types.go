package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionIssued       EventType = "session_issued"
	EventSessionReused       EventType = "session_reused"
	EventSessionCleared      EventType = "session_cleared"
	EventCollaboratorCreated EventType = "collaborator_created"
	EventCollaboratorUpdated EventType = "collaborator_updated"
	EventCollaboratorDeleted EventType = "collaborator_deleted"
	EventClientCreated       EventType = "client_created"
	EventClientUpdated       EventType = "client_updated"
	EventEventCreated        EventType = "event_created"
)

// Actor identifies the collaborator who triggered an event.
type Actor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Event represents something worth recording that a command did.
type Event struct {
	Type      EventType   `json:"type"`
	Actor     *Actor      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with the current time.
func New(eventType EventType, actor *Actor, payload interface{}) Event {
	return Event{Type: eventType, Actor: actor, Timestamp: time.Now().UTC(), Payload: payload}
}

// SessionPayload describes a session change.
type SessionPayload struct {
	UserID    int64     `json:"user_id"`
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"exp,omitempty"`
}

// CollaboratorCreatedPayload payload.
type CollaboratorCreatedPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// ClientCreatedPayload payload.
type ClientCreatedPayload struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company"`
}

// ChangedPayload lists the fields an update touched.
type ChangedPayload struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// CollaboratorDeletedPayload payload.
type CollaboratorDeletedPayload struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EventCreatedPayload payload.
type EventCreatedPayload struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ContractID string `json:"contract_id"`
}
