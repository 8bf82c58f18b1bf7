package jina

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJinaEmbedText(t *testing.T) {
	var gotAuth string
	var gotReq embeddingRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"data":[{"object":"embedding","index":0,"embedding":[1,1,1,1]}]}`))
	}))
	defer srv.Close()

	p := &JinaProvider{apiKey: "jina-key", baseURL: srv.URL, model: "jina-embeddings-v2-base-en", client: srv.Client()}
	vec, err := p.EmbedText(context.Background(), "chunk text")
	if err != nil {
		t.Fatalf("EmbedText: %v", err)
	}

	if gotAuth != "Bearer jina-key" {
		t.Errorf("Authorization = %q, want bearer key", gotAuth)
	}
	if len(gotReq.Input) != 1 || gotReq.Input[0] != "chunk text" {
		t.Errorf("request input = %v, want single text", gotReq.Input)
	}
	// [1,1,1,1] has magnitude 2, so every component normalizes to 0.5.
	if len(vec) != 4 {
		t.Fatalf("vector length = %d, want 4", len(vec))
	}
	for i, v := range vec {
		if math.Abs(float64(v)-0.5) > 1e-6 {
			t.Errorf("vec[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestJinaEmbedTextAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[],"error":{"message":"invalid api key"}}`))
	}))
	defer srv.Close()

	p := &JinaProvider{apiKey: "bad", baseURL: srv.URL, model: "m", client: srv.Client()}
	if _, err := p.EmbedText(context.Background(), "text"); err == nil {
		t.Fatal("expected error when the API reports one")
	}
}

func TestJinaEmbedTextEmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	p := &JinaProvider{apiKey: "k", baseURL: srv.URL, model: "m", client: srv.Client()}
	if _, err := p.EmbedText(context.Background(), "text"); err == nil {
		t.Fatal("expected error on empty data")
	}
}
