package openaicompat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-editor-be/pkg/completion"
)

func sseServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, frame := range frames {
			fmt.Fprintf(w, "data: %s\n\n", frame)
		}
	}))
}

func TestChatStreamParsesDeltas(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"role":"assistant"}}]}`,
		`{"choices":[{"delta":{"content":"A"}}]}`,
		`{"choices":[{"delta":{"content":" fox"}}]}`,
		`{"choices":[{"delta":{"content":" runs."}}]}`,
		`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
		`[DONE]`,
	})
	defer srv.Close()

	p := NewProvider("test-key", srv.URL, "test-model")
	stream, err := p.ChatStream(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	defer stream.Close()

	got, err := completion.Collect(stream)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got != "A fox runs." {
		t.Errorf("got %q, want %q", got, "A fox runs.")
	}
}

func TestChatStreamSkipsMalformedFrames(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"keep"}}]}`,
		`{not json`,
		`{"choices":[]}`,
		`{"choices":[{"delta":{"content":" this"}}]}`,
		`[DONE]`,
	})
	defer srv.Close()

	p := NewProvider("", srv.URL, "test-model")
	stream, err := p.ChatStream(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	defer stream.Close()

	got, err := completion.Collect(stream)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if got != "keep this" {
		t.Errorf("got %q, want %q", got, "keep this")
	}
}

func TestChatStreamEndsOnConnectionCloseWithoutDone(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"content":"partial"}}]}`,
	})
	defer srv.Close()

	p := NewProvider("", srv.URL, "test-model")
	stream, err := p.ChatStream(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("ChatStream: %v", err)
	}
	defer stream.Close()

	frag, err := stream.Recv()
	if err != nil {
		t.Fatalf("first Recv: %v", err)
	}
	if frag.Text != "partial" {
		t.Errorf("got %q, want %q", frag.Text, "partial")
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected io.EOF after server close, got %v", err)
	}
}

func TestChatStreamRejectsEmptyHistory(t *testing.T) {
	p := NewProvider("", "http://localhost:1", "m")
	if _, err := p.ChatStream(context.Background(), nil); err != completion.ErrNoMessages {
		t.Errorf("expected ErrNoMessages, got %v", err)
	}
}

func TestChatStreamSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider("", srv.URL, "test-model")
	if _, err := p.ChatStream(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "hi"},
	}); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestChatSendsBearerCredential(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	defer srv.Close()

	p := NewProvider("secret-token", srv.URL, "test-model")
	out, err := p.Chat(context.Background(), []completion.Message{
		{Role: completion.RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if out != "ok" {
		t.Errorf("got %q, want %q", out, "ok")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header: got %q", gotAuth)
	}
}
