package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes carried on the bus.
const (
	TypeDocumentIndexed = "DOCUMENT_INDEXED"
	TypeAssistCompleted = "ASSIST_COMPLETED"
	TypeUserLogin       = "USER_LOGIN"
	TypeSystemBroadcast = "SYSTEM_BROADCAST"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "DOCUMENT_INDEXED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the envelope shared by every event; it doubles as the wire
// format, so subscribers can reconstruct the full event from the message body.
type BaseEvent struct {
	ID         uuid.UUID              `json:"id"`
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds an envelope with a fresh ID and the current time.
func New(eventType string, payload map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}

// NewDocumentIndexed reports that a document's embedding index was rebuilt.
func NewDocumentIndexed(userID, documentID uuid.UUID, chunks int) BaseEvent {
	return New(TypeDocumentIndexed, map[string]interface{}{
		"user_id":     userID.String(),
		"document_id": documentID.String(),
		"chunks":      chunks,
	})
}

// NewAssistCompleted reports that a writing-assist run finished and replaced
// the selection.
func NewAssistCompleted(userID, documentID uuid.UUID, action string, insertedLen int) BaseEvent {
	return New(TypeAssistCompleted, map[string]interface{}{
		"user_id":      userID.String(),
		"document_id":  documentID.String(),
		"action":       action,
		"inserted_len": insertedLen,
	})
}

// NewUserLogin records a successful credential login.
func NewUserLogin(userID uuid.UUID, device string) BaseEvent {
	return New(TypeUserLogin, map[string]interface{}{
		"user_id": userID.String(),
		"device":  device,
		"time":    time.Now().Format(time.RFC822),
	})
}

// NewSystemBroadcast carries an operator announcement for every user.
func NewSystemBroadcast(title, message string) BaseEvent {
	return New(TypeSystemBroadcast, map[string]interface{}{
		"title":   title,
		"message": message,
	})
}
