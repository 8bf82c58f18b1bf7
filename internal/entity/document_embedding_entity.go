package entity

import (
	"time"

	"github.com/google/uuid"
)

// DocumentEmbedding is one indexed chunk of a document's markdown.
type DocumentEmbedding struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	Chunk      string
	Embedding  []float32
	ChunkIndex int
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}
