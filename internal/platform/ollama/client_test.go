package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yungbote/docqa-backend/internal/platform/httpx"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(logger.NewNop(), Config{
		BaseURL:     srv.URL,
		Model:       "mistral",
		EmbedModel:  "all-minilm",
		MaxTokens:   1024,
		Temperature: 0.5,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGenerateNonStreaming(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["stream"] != false || body["model"] != "mistral" || body["prompt"] != "why?" {
			t.Fatalf("body: %v", body)
		}
		opts, _ := body["options"].(map[string]any)
		if opts["num_predict"] != float64(1024) || opts["temperature"] != 0.5 {
			t.Fatalf("options: %v", opts)
		}
		_, _ = w.Write([]byte(`{"response":"because","done":true}`))
	})

	got, err := c.Generate(context.Background(), "why?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "because" {
		t.Fatalf("Generate: %q", got)
	}
}

func TestLoadAndUnloadSetKeepAlive(t *testing.T) {
	var seen []any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if _, ok := body["prompt"]; ok {
			t.Fatalf("load/unload must not send a prompt: %v", body)
		}
		seen = append(seen, body["keep_alive"])
		_, _ = w.Write([]byte(`{"response":"","done":true,"done_reason":"load"}`))
	})

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Unload(context.Background()); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if len(seen) != 2 || seen[0] != "-1" || seen[1] != float64(0) {
		t.Fatalf("keep_alive values: %v", seen)
	}
}

func TestEmbedBatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != "all-minilm" || len(req.Input) != 2 {
			t.Fatalf("request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	})

	got, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(got) != 2 || got[1][0] != float32(0.3) {
		t.Fatalf("Embed: %v", got)
	}
}

func TestEmbedCountMismatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2]]}`))
	})
	if _, err := c.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestNon200IsStatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'mistral' not found"}`))
	})
	_, err := c.Generate(context.Background(), "x")
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("expected StatusError 404, got %v", err)
	}
}
