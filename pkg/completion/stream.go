package completion

import (
	"context"
	"fmt"
	"io"
)

// Stream is the lazy fragment sequence returned by ChatStream. Recv is the
// per-fragment suspend point: it checks ctx before every read, yields
// fragments in arrival order, returns io.EOF on normal termination and any
// other error exactly once. After a terminal result the stream keeps
// returning it.
type Stream struct {
	ctx  context.Context
	next func() (Fragment, error)
	body io.Closer

	done bool
	err  error
}

// NewStream wires a provider's fragment reader into a Stream. next returns
// the following fragment, io.EOF at end of stream, or a terminal error.
func NewStream(ctx context.Context, next func() (Fragment, error), body io.Closer) *Stream {
	return &Stream{
		ctx:  ctx,
		next: next,
		body: body,
	}
}

func (s *Stream) Recv() (Fragment, error) {
	if s.done {
		return Fragment{}, s.err
	}

	select {
	case <-s.ctx.Done():
		s.terminate(s.ctx.Err())
		return Fragment{}, s.err
	default:
	}

	frag, err := s.next()
	if err != nil {
		s.terminate(err)
		return Fragment{}, s.err
	}
	return frag, nil
}

func (s *Stream) terminate(err error) {
	s.done = true
	s.err = err
	if s.body != nil {
		s.body.Close()
	}
}

// Close releases the underlying response body. Safe to call more than once
// and after the stream already terminated.
func (s *Stream) Close() error {
	if s.done {
		return nil
	}
	s.terminate(io.EOF)
	return nil
}

// StreamError carries whatever text arrived before a stream failed, so
// callers can keep partial progress.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream failed after %d bytes: %v", len(e.Partial), e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Collect drains a stream into the concatenated response. On failure the
// partial text is preserved inside the returned StreamError.
func Collect(s *Stream) (string, error) {
	var acc string
	for {
		frag, err := s.Recv()
		if err == io.EOF {
			return acc, nil
		}
		if err != nil {
			return acc, &StreamError{Partial: acc, Err: err}
		}
		acc += frag.Text
	}
}
