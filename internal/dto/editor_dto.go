package dto

import (
	"github.com/google/uuid"

	"ai-editor-be/pkg/editor"
)

type OpenEditorSessionRequest struct {
	DocumentId uuid.UUID `json:"document_id" validate:"required"`
}

// EditorSessionState is the full server-side view of an open session: the
// working text, the current selection, the buffer revision, and the state of
// the assist operation if one is running.
type EditorSessionState struct {
	SessionId   string       `json:"session_id"`
	DocumentId  uuid.UUID    `json:"document_id"`
	Text        string       `json:"text"`
	Selection   editor.Range `json:"selection"`
	Revision    uint64       `json:"revision"`
	Active      bool         `json:"active"`
	InsertedLen int          `json:"inserted_len"`
	LastError   string       `json:"last_error,omitempty"`
}

// EditOp is one client edit applied to the session buffer.
// Type "replace_range" uses From/To/Text; "set_selection" uses Start/End.
type EditOp struct {
	Type  string `json:"type" validate:"required,oneof=replace_range set_selection"`
	From  int    `json:"from"`
	To    int    `json:"to"`
	Text  string `json:"text"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

type ApplyEditsRequest struct {
	SessionId string   `json:"-"`
	Ops       []EditOp `json:"ops" validate:"required,min=1,dive"`
}

type ApplyEditsResponse struct {
	Selection editor.Range `json:"selection"`
	Revision  uint64       `json:"revision"`
}

type AssistRequest struct {
	SessionId string `json:"-"`
	Action    string `json:"action" validate:"required,oneof=summarize improve complete"`
}

type AssistStartedResponse struct {
	SessionId string `json:"session_id"`
	Action    string `json:"action"`
}

// AssistEventFrame is the websocket payload mirroring one assist run to the
// browser: started, fragment, replace_failed, completed or failed.
type AssistEventFrame struct {
	SessionId string `json:"session_id"`
	Event     string `json:"event"`
	Action    string `json:"action"`
	Fragment  string `json:"fragment,omitempty"`
	Text      string `json:"text,omitempty"`
	Error     string `json:"error,omitempty"`
}
