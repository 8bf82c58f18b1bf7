package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewFillsEnvelope(t *testing.T) {
	evt := New(TypeSystemBroadcast, map[string]interface{}{"title": "maintenance"})
	if evt.ID == uuid.Nil {
		t.Error("New did not assign an ID")
	}
	if evt.OccurredAt.IsZero() {
		t.Error("New did not set OccurredAt")
	}
	if evt.EventType() != TypeSystemBroadcast {
		t.Errorf("EventType = %q, want %q", evt.EventType(), TypeSystemBroadcast)
	}
	if evt.Payload()["title"] != "maintenance" {
		t.Errorf("payload title = %v, want maintenance", evt.Payload()["title"])
	}
}

func TestDocumentIndexedPayload(t *testing.T) {
	userID := uuid.New()
	docID := uuid.New()
	evt := NewDocumentIndexed(userID, docID, 7)

	if evt.Type != TypeDocumentIndexed {
		t.Errorf("type = %q, want %q", evt.Type, TypeDocumentIndexed)
	}
	if got := evt.Data["user_id"]; got != userID.String() {
		t.Errorf("user_id = %v, want %v", got, userID)
	}
	if got := evt.Data["document_id"]; got != docID.String() {
		t.Errorf("document_id = %v, want %v", got, docID)
	}
	if got := evt.Data["chunks"]; got != 7 {
		t.Errorf("chunks = %v, want 7", got)
	}
}

func TestAssistCompletedPayload(t *testing.T) {
	userID := uuid.New()
	docID := uuid.New()
	evt := NewAssistCompleted(userID, docID, "improve", 42)

	if evt.Type != TypeAssistCompleted {
		t.Errorf("type = %q, want %q", evt.Type, TypeAssistCompleted)
	}
	if got := evt.Data["action"]; got != "improve" {
		t.Errorf("action = %v, want improve", got)
	}
	if got := evt.Data["inserted_len"]; got != 42 {
		t.Errorf("inserted_len = %v, want 42", got)
	}
}
