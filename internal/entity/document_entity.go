package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is a rich-text document. Content is the editor widget's native
// JSON state; ContentMarkdown is derived from it on every save and is what
// editor sessions, chat grounding, and the indexing pipeline consume.
type Document struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	FolderId        *uuid.UUID
	Title           string
	Content         string // rich JSON, stored verbatim
	ContentMarkdown string
	WordCount       int
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
