package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title    string          `json:"title" validate:"required,max=255"`
	Content  json.RawMessage `json:"content"`
	FolderId *uuid.UUID      `json:"folder_id"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowDocumentResponse struct {
	Id              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Content         json.RawMessage `json:"content"`
	ContentMarkdown string          `json:"content_markdown"`
	FolderId        *uuid.UUID      `json:"folder_id"`
	WordCount       int             `json:"word_count"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Id       uuid.UUID       `json:"-"`
	Title    string          `json:"title" validate:"required,max=255"`
	Content  json.RawMessage `json:"content"`
	FolderId *uuid.UUID      `json:"folder_id"`
}

type UpdateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type DocumentListItem struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	FolderId  *uuid.UUID `json:"folder_id"`
	WordCount int        `json:"word_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Items []DocumentListItem `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// PublishIndexDocumentMessage is the queue payload that schedules a
// document for (re)indexing.
type PublishIndexDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// SemanticSearchResult carries one hit. SearchType tells the frontend which
// path produced it (semantic, literal or literal_filter); Score is only set
// for semantic hits.
type SemanticSearchResult struct {
	DocumentId uuid.UUID  `json:"document_id"`
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	Score      *float64   `json:"score,omitempty"`
	SearchType string     `json:"search_type"`
	UpdatedAt  *time.Time `json:"updated_at"`
}
