package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/config"
	"github.com/Imagineer99/GPT-Recipe-Scraper/internal/types"
)

// Generator is the boundary to the text-generation service: submit a prompt,
// receive a completion. Tests substitute deterministic fakes here.
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMProvider specifies which LLM backend to use.
type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderOllama LLMProvider = "ollama"
	ProviderCustom LLMProvider = "custom"
)

// LLMClient communicates with an LLM over plain HTTP.
type LLMClient struct {
	cfg    *config.AIConfig
	client *http.Client
	logger *slog.Logger
}

// NewLLMClient creates a new LLM client.
func NewLLMClient(cfg *config.AIConfig, logger *slog.Logger) *LLMClient {
	return &LLMClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger.With("component", "llm_client"),
	}
}

// Generate sends a prompt to the configured provider and returns the response.
func (c *LLMClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	c.logger.Debug("generation request",
		"provider", c.cfg.Provider,
		"model", c.cfg.Model,
		"prompt_bytes", len(userPrompt),
	)

	switch LLMProvider(c.cfg.Provider) {
	case ProviderOpenAI:
		return c.generateOpenAI(ctx, systemPrompt, userPrompt)
	case ProviderOllama:
		return c.generateOllama(ctx, systemPrompt, userPrompt)
	case ProviderCustom:
		return c.generateCustom(ctx, systemPrompt, userPrompt)
	default:
		return "", &types.GenerationError{
			Provider: c.cfg.Provider,
			Model:    c.cfg.Model,
			Err:      fmt.Errorf("unsupported LLM provider: %s", c.cfg.Provider),
		}
	}
}

func (c *LLMClient) generateOpenAI(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &types.GenerationError{
			Provider: c.cfg.Provider,
			Model:    c.cfg.Model,
			Err:      types.ErrMissingAPIKey,
		}
	}

	payload := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"max_tokens":  c.cfg.MaxTokens,
		"temperature": c.cfg.Temperature,
	}

	body, _ := json.Marshal(payload)
	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", c.wrapErr(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.wrapErr(0, fmt.Errorf("openai request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("openai response: %s", strings.TrimSpace(string(snippet))))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("decode openai response: %w", err))
	}
	if len(result.Choices) == 0 {
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("no choices in openai response"))
	}
	return result.Choices[0].Message.Content, nil
}

func (c *LLMClient) generateOllama(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model":  c.cfg.Model,
		"system": systemPrompt,
		"prompt": userPrompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.cfg.Temperature,
			"num_predict": c.cfg.MaxTokens,
		},
	}

	body, _ := json.Marshal(payload)
	endpoint := c.cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", c.wrapErr(0, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.wrapErr(0, fmt.Errorf("ollama request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("ollama response: %s", strings.TrimSpace(string(snippet))))
	}

	var result struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("decode ollama response: %w", err))
	}
	return result.Response, nil
}

func (c *LLMClient) generateCustom(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := map[string]any{
		"model":  c.cfg.Model,
		"system": systemPrompt,
		"prompt": userPrompt,
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", c.wrapErr(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.wrapErr(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", c.wrapErr(resp.StatusCode, fmt.Errorf("custom endpoint response: %s", strings.TrimSpace(string(snippet))))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.wrapErr(resp.StatusCode, err)
	}
	return string(respBody), nil
}

func (c *LLMClient) wrapErr(status int, err error) error {
	return &types.GenerationError{
		Provider:   c.cfg.Provider,
		Model:      c.cfg.Model,
		StatusCode: status,
		Err:        err,
	}
}
