package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"AstroChart/internal/domain/service"
)

func TestCompleteSendsMessagesRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("x-api-key") != "k" || r.Header.Get("anthropic-version") != anthropicVersion {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req messagesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "test-model" || req.MaxTokens != 2000 || req.Temperature != 0.7 ||
			len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "hello" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"## Introduction\nHi"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "test-model", time.Second)
	out, err := c.Complete(context.Background(), service.CompletionRequest{Prompt: "hello", MaxTokens: 2000, Temperature: 0.7})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "## Introduction\nHi" {
		t.Fatalf("unexpected text %q", out)
	}
}

func TestCompleteWithoutText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"tool_use"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", "m", time.Second)
	if _, err := c.Complete(context.Background(), service.CompletionRequest{Prompt: "x"}); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}
