package assist

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection means an action was triggered with nothing selected.
	// The trigger is a local no-op: no request is issued and no operation
	// state is recorded.
	ErrEmptySelection = errors.New("assist: selection is empty")

	// ErrOperationActive means a streaming operation is already running on
	// this runner. The second trigger issues no request and changes nothing.
	ErrOperationActive = errors.New("assist: a streaming operation is already active")

	// ErrStaleEdit means the document was edited underneath a streaming
	// operation. The operation aborts instead of risking a misplaced
	// replacement; fragments already applied stay in the document.
	ErrStaleEdit = errors.New("assist: document changed during streaming")
)

// ReplaceError records a document mutation rejected mid-stream. It does not
// abort the operation; later fragments still attempt to replace.
type ReplaceError struct {
	Err error
}

func (e *ReplaceError) Error() string {
	return fmt.Sprintf("assist: replace failed: %v", e.Err)
}

func (e *ReplaceError) Unwrap() error {
	return e.Err
}

// CompletionError records a failure of the completion request or its
// stream. The operation aborts and the runner returns to idle.
type CompletionError struct {
	Err error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("assist: completion failed: %v", e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}
