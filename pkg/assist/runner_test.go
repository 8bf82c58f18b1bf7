package assist

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"ai-editor-be/pkg/completion"
	"ai-editor-be/pkg/editor"
)

// fakeProvider replays scripted fragments and records every request it saw.
type fakeProvider struct {
	mu        sync.Mutex
	fragments []string
	terminal  error // returned after the fragments; nil means io.EOF
	calls     int
	requests  [][]completion.Message
	gate      chan struct{} // when set, each fragment waits for a tick
}

func (f *fakeProvider) Chat(ctx context.Context, history []completion.Message, opts ...completion.Option) (string, error) {
	out := ""
	for _, fr := range f.fragments {
		out += fr
	}
	return out, nil
}

func (f *fakeProvider) ChatStream(ctx context.Context, history []completion.Message, opts ...completion.Option) (*completion.Stream, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, history)
	f.mu.Unlock()

	i := 0
	next := func() (completion.Fragment, error) {
		if f.gate != nil {
			<-f.gate
		}
		if i >= len(f.fragments) {
			if f.terminal != nil {
				return completion.Fragment{}, f.terminal
			}
			return completion.Fragment{}, io.EOF
		}
		frag := completion.Fragment{Text: f.fragments[i]}
		i++
		return frag, nil
	}
	return completion.NewStream(ctx, next, nil), nil
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func selectRange(t *testing.T, b *editor.Buffer, start, end int) {
	t.Helper()
	if err := b.SetSelection(editor.Range{Start: start, End: end}); err != nil {
		t.Fatalf("SetSelection: %v", err)
	}
}

func TestRunSummarizeScenario(t *testing.T) {
	doc := editor.NewBuffer("Note: The quick brown fox. End.")
	selectRange(t, doc, 6, 26) // "The quick brown fox."

	provider := &fakeProvider{fragments: []string{"A", " fox", " runs."}}
	r := NewRunner(doc, provider, nil)

	got, err := r.Run(context.Background(), ActionSummarize)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "A fox runs." {
		t.Errorf("accumulated = %q, want %q", got, "A fox runs.")
	}
	if final := doc.Export(); final != "Note: A fox runs. End." {
		t.Errorf("document = %q, want %q", final, "Note: A fox runs. End.")
	}

	// The request embeds the captured selection in a system+user pair.
	if provider.callCount() != 1 {
		t.Fatalf("network calls = %d, want 1", provider.callCount())
	}
	req := provider.requests[0]
	if len(req) != 2 || req[0].Role != completion.RoleSystem || req[1].Role != completion.RoleUser {
		t.Fatalf("unexpected message shape: %+v", req)
	}
	if want := "The quick brown fox."; !strings.Contains(req[1].Content, want) {
		t.Errorf("user message %q does not contain selection %q", req[1].Content, want)
	}

	st := r.State()
	if st.Active || st.InsertedLen != 0 || st.LastErr != nil {
		t.Errorf("state not reset after success: %+v", st)
	}
}

func TestRunFragmentSplitEquivalence(t *testing.T) {
	splits := [][]string{
		{"Hello world"},
		{"Hello ", "world"},
		{"He", "llo", " wo", "rld"},
	}

	var results []string
	for _, frags := range splits {
		doc := editor.NewBuffer("[start] old text [end]")
		selectRange(t, doc, 8, 16) // "old text"

		r := NewRunner(doc, &fakeProvider{fragments: frags}, nil)
		if _, err := r.Run(context.Background(), ActionImprove); err != nil {
			t.Fatalf("Run with %d fragments: %v", len(frags), err)
		}
		results = append(results, doc.Export())
	}

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Errorf("split %d produced %q, split 0 produced %q", i, results[i], results[0])
		}
	}
	if results[0] != "[start] Hello world [end]" {
		t.Errorf("final document = %q", results[0])
	}
}

func TestRunEmptySelectionIsNoOp(t *testing.T) {
	doc := editor.NewBuffer("Nothing selected here.")
	provider := &fakeProvider{fragments: []string{"should never appear"}}
	r := NewRunner(doc, provider, nil)

	_, err := r.Run(context.Background(), ActionImprove)
	if !errors.Is(err, ErrEmptySelection) {
		t.Fatalf("want ErrEmptySelection, got %v", err)
	}
	if provider.callCount() != 0 {
		t.Errorf("no request may be issued, got %d calls", provider.callCount())
	}
	if doc.Export() != "Nothing selected here." {
		t.Errorf("document mutated: %q", doc.Export())
	}
	st := r.State()
	if st.Active || st.InsertedLen != 0 || st.LastErr != nil {
		t.Errorf("state must stay untouched: %+v", st)
	}
}

func TestRunSecondTriggerWhileActive(t *testing.T) {
	doc := editor.NewBuffer("abc def ghi")
	selectRange(t, doc, 4, 7)

	gate := make(chan struct{})
	provider := &fakeProvider{fragments: []string{"X", "Y"}, gate: gate}

	started := make(chan struct{})
	r := NewRunner(doc, provider, func(ev Event) {
		if ev.Type == EventStarted {
			close(started)
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := r.Run(context.Background(), ActionComplete)
		done <- err
	}()

	<-started
	if _, err := r.Run(context.Background(), ActionComplete); !errors.Is(err, ErrOperationActive) {
		t.Errorf("second trigger: want ErrOperationActive, got %v", err)
	}

	// Release the stream and let the first operation finish.
	gate <- struct{}{}
	gate <- struct{}{}
	close(gate)

	if err := <-done; err != nil {
		t.Fatalf("first operation failed: %v", err)
	}
	if provider.callCount() != 1 {
		t.Errorf("outstanding network calls = %d, want 1", provider.callCount())
	}
}

func TestRunPartialProgressOnCompletionFailure(t *testing.T) {
	doc := editor.NewBuffer("keep [selection] keep")
	selectRange(t, doc, 5, 16) // "[selection]"

	boom := errors.New("connection reset")
	provider := &fakeProvider{fragments: []string{"Par", "tial"}, terminal: boom}
	r := NewRunner(doc, provider, nil)

	got, err := r.Run(context.Background(), ActionSummarize)

	var completionErr *CompletionError
	if !errors.As(err, &completionErr) {
		t.Fatalf("want CompletionError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("cause not preserved: %v", err)
	}
	if got != "Partial" {
		t.Errorf("accumulated = %q, want %q", got, "Partial")
	}
	// Both applied fragments stay in the document.
	if final := doc.Export(); final != "keep Partial keep" {
		t.Errorf("document = %q, want %q", final, "keep Partial keep")
	}

	st := r.State()
	if st.Active {
		t.Error("state still active after failure")
	}
	if st.InsertedLen != 0 {
		t.Errorf("InsertedLen not cleared: %d", st.InsertedLen)
	}
	if !errors.As(st.LastErr, &completionErr) {
		t.Errorf("LastErr = %v, want recorded CompletionError", st.LastErr)
	}

	// The runner is reusable after the failure.
	selectRange(t, doc, 5, 12) // "Partial"
	provider2 := &fakeProvider{fragments: []string{"done"}}
	r2 := NewRunner(doc, provider2, nil)
	if _, err := r2.Run(context.Background(), ActionImprove); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if doc.Export() != "keep done keep" {
		t.Errorf("retry document = %q", doc.Export())
	}
}

func TestRunAbortsOnExternalEdit(t *testing.T) {
	doc := editor.NewBuffer("intro [target] outro")
	selectRange(t, doc, 6, 14) // "[target]"

	provider := &fakeProvider{fragments: []string{"one", "two", "three"}}

	edited := false
	var r *Runner
	r = NewRunner(doc, provider, func(ev Event) {
		if ev.Type == EventFragment && !edited {
			edited = true
			// A concurrent user edit elsewhere in the document.
			if err := doc.ReplaceRange(doc.Len(), doc.Len(), "!"); err != nil {
				t.Errorf("user edit: %v", err)
			}
		}
	})

	_, err := r.Run(context.Background(), ActionImprove)
	if !errors.Is(err, ErrStaleEdit) {
		t.Fatalf("want ErrStaleEdit, got %v", err)
	}

	// The first fragment stays applied; the operation stopped before
	// touching the moved document again.
	if final := doc.Export(); final != "intro one outro!" {
		t.Errorf("document = %q, want %q", final, "intro one outro!")
	}

	st := r.State()
	if st.Active {
		t.Error("state still active after stale abort")
	}
	if !errors.Is(st.LastErr, ErrStaleEdit) {
		t.Errorf("LastErr = %v, want ErrStaleEdit", st.LastErr)
	}
}

// failOnceDoc rejects the first replace, then delegates.
type failOnceDoc struct {
	editor.Document
	failed bool
}

func (d *failOnceDoc) ReplaceRange(from, to int, text string) error {
	if !d.failed {
		d.failed = true
		return errors.New("transaction rejected")
	}
	return d.Document.ReplaceRange(from, to, text)
}

func TestRunReplaceFailureDoesNotAbortStream(t *testing.T) {
	buf := editor.NewBuffer("aa bb cc")
	selectRange(t, buf, 3, 5) // "bb"
	doc := &failOnceDoc{Document: buf}

	var replayFailures int
	provider := &fakeProvider{fragments: []string{"XX", "YY"}}
	r := NewRunner(doc, provider, func(ev Event) {
		if ev.Type == EventReplaceFailed {
			replayFailures++
		}
	})

	got, err := r.Run(context.Background(), ActionImprove)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got != "XXYY" {
		t.Errorf("accumulated = %q", got)
	}
	if replayFailures != 1 {
		t.Errorf("replace failures observed = %d, want 1", replayFailures)
	}
	// The second fragment catches up with the full accumulated text.
	if final := buf.Export(); final != "aa XXYY cc" {
		t.Errorf("document = %q, want %q", final, "aa XXYY cc")
	}

	var replaceErr *ReplaceError
	if !errors.As(r.State().LastErr, &replaceErr) {
		t.Errorf("LastErr = %v, want recorded ReplaceError", r.State().LastErr)
	}
}

func TestRunCancelledContextAborts(t *testing.T) {
	doc := editor.NewBuffer("alpha beta gamma")
	selectRange(t, doc, 6, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := &fakeProvider{fragments: []string{"never"}}
	r := NewRunner(doc, provider, nil)

	_, err := r.Run(ctx, ActionComplete)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled in chain, got %v", err)
	}
	if doc.Export() != "alpha beta gamma" {
		t.Errorf("document mutated: %q", doc.Export())
	}
	if r.State().Active {
		t.Error("state still active")
	}
}
