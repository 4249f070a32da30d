package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

func openAIConfig(endpoint string) *config.AIConfig {
	cfg := config.DefaultConfig()
	cfg.AI.Endpoint = endpoint
	cfg.AI.APIKey = "test-key"
	return &cfg.AI
}

func TestLLMClientOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}

		var payload struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", payload.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": "INSTRUCTION: a\nINPUT: b\nOUTPUT: c"}},
			},
		})
	}))
	defer srv.Close()

	client := NewLLMClient(openAIConfig(srv.URL), testLogger)
	got, err := client.Generate(context.Background(), "system framing", "user prompt")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got != "INSTRUCTION: a\nINPUT: b\nOUTPUT: c" {
		t.Errorf("unexpected completion: %q", got)
	}
}

func TestLLMClientOpenAIServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limit exceeded"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewLLMClient(openAIConfig(srv.URL), testLogger)
	_, err := client.Generate(context.Background(), "s", "u")

	var ge *types.GenerationError
	if !errors.As(err, &ge) {
		t.Fatalf("expected *types.GenerationError, got %T: %v", err, err)
	}
	if ge.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429 recorded, got %d", ge.StatusCode)
	}
}

func TestLLMClientMissingAPIKey(t *testing.T) {
	cfg := openAIConfig("http://localhost:0")
	cfg.APIKey = ""

	client := NewLLMClient(cfg, testLogger)
	_, err := client.Generate(context.Background(), "s", "u")
	if !errors.Is(err, types.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestLLMClientUnsupportedProvider(t *testing.T) {
	cfg := openAIConfig("http://localhost:0")
	cfg.Provider = "palm"

	client := NewLLMClient(cfg, testLogger)
	if _, err := client.Generate(context.Background(), "s", "u"); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLLMClientOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	cfg := openAIConfig(srv.URL)
	cfg.Provider = "ollama"

	client := NewLLMClient(cfg, testLogger)
	got, err := client.Generate(context.Background(), "s", "u")
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	if got != "ok" {
		t.Errorf("unexpected completion: %q", got)
	}
}
