package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"ai-editor-be/pkg/assist"
	"ai-editor-be/pkg/editor"
)

// EditorSession is the live server-side state for one open editor tab.
// The buffer is the working copy of the document text and the runner drives
// AI replacements against it; both die with the session.
type EditorSession struct {
	ID         string    `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	DocumentID uuid.UUID `json:"document_id"`

	Buffer *editor.Buffer `json:"-"`
	Runner *assist.Runner `json:"-"`

	mu     sync.Mutex
	cancel context.CancelFunc
}

// SetCancel remembers the cancel func for the assist run in flight.
// Passing nil clears it.
func (s *EditorSession) SetCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel = cancel
}

// CancelActive stops the in-flight assist run, if any. Safe to call when
// nothing is running; a second call is a no-op.
func (s *EditorSession) CancelActive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
