package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPClientGenerate(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"dormis mejor los fines de semana"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL+"/", "key", "test-model", nil)
	out, err := c.GenerateWithSystem(context.Background(), "sos un coach", "datos")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "dormis mejor los fines de semana" {
		t.Fatalf("unexpected content %q", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestHTTPClientGenerateHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", "m", nil)
	if _, err := c.Generate(context.Background(), "x"); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestHTTPClientNotConfigured(t *testing.T) {
	c := NewHTTPClient("", "", "m", nil)
	if _, err := c.Generate(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
