package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one transcript entry. The transcript is append-only:
// messages are never edited or removed once persisted.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string // "user" | "assistant"
	Content       string
	CreatedAt     time.Time
}

const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)
