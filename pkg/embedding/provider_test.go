package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize([]float32{3, 4})
	want := []float32{0.6, 0.8}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("Normalize[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	var magnitude float64
	for _, v := range got {
		magnitude += float64(v) * float64(v)
	}
	if math.Abs(magnitude-1) > 1e-6 {
		t.Errorf("normalized magnitude^2 = %v, want 1", magnitude)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	got := Normalize([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Errorf("zero vector changed at %d: %v", i, v)
		}
	}
}

func TestOllamaEmbedText(t *testing.T) {
	var gotReq ollamaEmbeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %q, want /api/embeddings", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float64{3, 4}})
	}))
	defer srv.Close()

	p := &OllamaProvider{baseURL: srv.URL, model: "nomic-embed-text", client: srv.Client()}
	vec, err := p.EmbedText(context.Background(), "hello world")
	if err != nil {
		t.Fatalf("EmbedText: %v", err)
	}

	if gotReq.Model != "nomic-embed-text" || gotReq.Prompt != "hello world" {
		t.Errorf("request = %+v, want model and prompt set", gotReq)
	}
	want := []float32{0.6, 0.8}
	if len(vec) != len(want) {
		t.Fatalf("vector length = %d, want %d", len(vec), len(want))
	}
	for i := range want {
		if math.Abs(float64(vec[i]-want[i])) > 1e-6 {
			t.Errorf("vec[%d] = %v, want %v", i, vec[i], want[i])
		}
	}
}

func TestOllamaEmbedTextServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := &OllamaProvider{baseURL: srv.URL, model: "missing", client: srv.Client()}
	if _, err := p.EmbedText(context.Background(), "text"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
