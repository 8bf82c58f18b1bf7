package contract

import (
	"context"

	"ai-editor-be/internal/entity"
	"ai-editor-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ChatMessageRepository persists transcript entries. The transcript is
// append-only, so there is no update operation; deletion exists only to
// cascade a session delete.
type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
