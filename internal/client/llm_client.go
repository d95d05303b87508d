package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/musicmixer/api/internal/config"
)

// TextGenerator defines the interface for chat-completion text generation
type TextGenerator interface {
	Complete(ctx context.Context, system, user string) (string, error)
	IsConfigured() bool
}

// LLMClient talks to any OpenAI-compatible chat-completion API (Groq by default)
type LLMClient struct {
	api         *openai.Client
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
}

// NewLLMClient creates a new chat-completion client
func NewLLMClient(cfg *config.LLMConfig) *LLMClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	// Zero timeout: a slow upstream stalls only its own request.
	clientCfg.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
	}

	return &LLMClient{
		api:         openai.NewClientWithConfig(clientCfg),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

// Complete sends a system + user message pair and returns the first choice
func (c *LLMClient) Complete(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	log.Printf("[LLM] → chat completion model=%s prompt_chars=%d", c.model, len(user))

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("[LLM] ✗ status %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
			return "", fmt.Errorf("llm API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		log.Printf("[LLM] ✗ request failed: %v", err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	log.Printf("[LLM] ← %s finish=%s tokens=%d", resp.ID, resp.Choices[0].FinishReason, resp.Usage.TotalTokens)

	return resp.Choices[0].Message.Content, nil
}

// IsConfigured returns true if the client has an API credential
func (c *LLMClient) IsConfigured() bool {
	return c.apiKey != ""
}
