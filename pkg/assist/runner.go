package assist

import (
	"context"
	"io"
	"sync"

	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"
)

// Operation is the streaming-operation state. Exactly one operation may be
// active per runner; InsertedLen grows monotonically within one operation
// and is cleared when it ends. LastErr keeps the most recent failure so a
// caller can inspect it after the state reset.
type Operation struct {
	Active      bool
	Action      string
	InsertedLen int
	LastErr     error
}

// Runner executes selection-scoped streaming replacements against one
// document. The document handle is injected; the owning session tears the
// runner down by cancelling the ctx passed to Run.
type Runner struct {
	mu       sync.Mutex
	doc      editor.Document
	provider completion.Provider
	listener Listener
	op       Operation
}

func NewRunner(doc editor.Document, provider completion.Provider, listener Listener) *Runner {
	return &Runner{
		doc:      doc,
		provider: provider,
		listener: listener,
	}
}

// State returns a snapshot of the operation state.
func (r *Runner) State() Operation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.op
}

func (r *Runner) emit(ev Event) {
	if r.listener != nil {
		r.listener(ev)
	}
}

// Run executes one action end to end: capture the selection, stream the
// completion, project every fragment onto the captured range. It returns
// the accumulated text, which on failure holds whatever was applied before
// the stream died.
func (r *Runner) Run(ctx context.Context, action Action, opts ...completion.Option) (string, error) {
	r.mu.Lock()
	if r.op.Active {
		r.mu.Unlock()
		return "", ErrOperationActive
	}

	sel := r.doc.Selection()
	selected, err := editor.SelectedText(r.doc)
	if err != nil {
		r.mu.Unlock()
		return "", err
	}
	if selected == "" {
		r.mu.Unlock()
		return "", ErrEmptySelection
	}

	baseRev := r.doc.Revision()
	r.op = Operation{Active: true, Action: action.Name}
	r.mu.Unlock()

	accumulated, err := r.streamReplace(ctx, action, sel, selected, baseRev, opts...)

	r.mu.Lock()
	recorded := r.op.LastErr // a mid-stream ReplaceError, if one was recorded
	if err != nil {
		recorded = err
	}
	r.op = Operation{LastErr: recorded}
	r.mu.Unlock()

	if err != nil {
		r.emit(Event{Type: EventFailed, Action: action.Name, Err: err})
		return accumulated, err
	}
	r.emit(Event{Type: EventCompleted, Action: action.Name, Text: accumulated})
	return accumulated, nil
}

func (r *Runner) streamReplace(ctx context.Context, action Action, sel editor.Range, selected string, baseRev uint64, opts ...completion.Option) (string, error) {
	stream, err := r.provider.ChatStream(ctx, action.BuildMessages(selected), opts...)
	if err != nil {
		return "", &CompletionError{Err: err}
	}
	defer stream.Close()

	r.emit(Event{Type: EventStarted, Action: action.Name})

	var accumulated string
	// The first replacement consumes the whole captured selection; after
	// that the window is exactly [sel.Start, sel.Start+InsertedLen).
	windowEnd := sel.End
	expectedRev := baseRev

	for {
		frag, recvErr := stream.Recv()
		if recvErr == io.EOF {
			return accumulated, nil
		}
		if recvErr != nil {
			return accumulated, &CompletionError{Err: recvErr}
		}

		accumulated += frag.Text

		// Somebody else moved the document: abort rather than replace a
		// window that no longer means what was captured.
		if r.doc.Revision() != expectedRev {
			return accumulated, ErrStaleEdit
		}

		if replaceErr := r.doc.ReplaceRange(sel.Start, windowEnd, accumulated); replaceErr != nil {
			r.mu.Lock()
			r.op.LastErr = &ReplaceError{Err: replaceErr}
			r.mu.Unlock()
			r.emit(Event{Type: EventReplaceFailed, Action: action.Name, Err: replaceErr})
			continue
		}

		insertedLen := len([]rune(accumulated))
		windowEnd = sel.Start + insertedLen
		expectedRev = r.doc.Revision()

		r.mu.Lock()
		r.op.InsertedLen = insertedLen
		r.mu.Unlock()

		r.emit(Event{Type: EventFragment, Action: action.Name, Fragment: frag.Text})
	}
}
