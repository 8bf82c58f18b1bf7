package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateChatSessionRequest opens a conversation. Title is optional; an
// untitled session is named after its first message.
type CreateChatSessionRequest struct {
	Title      string     `json:"title" validate:"omitempty,max=255"`
	DocumentId *uuid.UUID `json:"document_id"`
}

type ChatSessionResponse struct {
	Id         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	DocumentId *uuid.UUID `json:"document_id"`
	CreatedAt  time.Time  `json:"created_at"`
}

type SendChatMessageRequest struct {
	SessionId uuid.UUID `json:"-"`
	Message   string    `json:"message" validate:"required"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SendChatMessageResponse returns both transcript entries appended by one
// send: the user's, and the assistant's once the reply fully accumulated.
type SendChatMessageResponse struct {
	UserMessage      ChatMessageResponse `json:"user_message"`
	AssistantMessage ChatMessageResponse `json:"assistant_message"`
}
