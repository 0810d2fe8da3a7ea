// Package llm wraps a single-turn chat completion call.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "openai/gpt-4o-mini"

var (
	// ErrMissingAPIKey indicates the client was configured without a key.
	ErrMissingAPIKey = errors.New("llm: api key is required")
	// ErrEmptyResponse indicates the completion carried no choices.
	ErrEmptyResponse = errors.New("llm: empty completion")
)

// Config configures the completion client.
type Config struct {
	APIKey string
	// Model accepts provider-prefixed names such as "openai/gpt-4o-mini";
	// the prefix is dropped before the request is sent.
	Model string
	// BaseURL points at an OpenAI-compatible endpoint (e.g. a LiteLLM proxy).
	BaseURL string
	Logger  *slog.Logger
}

// Client sends prompts to an OpenAI-compatible chat completion endpoint.
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

// New creates a completion client.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		api:    openai.NewClientWithConfig(clientCfg),
		model:  ModelName(cfg.Model),
		logger: logger,
	}, nil
}

// ModelName strips a provider prefix ("openai/gpt-4o-mini" -> "gpt-4o-mini").
func ModelName(model string) string {
	if model == "" {
		model = DefaultModel
	}
	if i := strings.Index(model, "/"); i >= 0 {
		return model[i+1:]
	}
	return model
}

// Complete sends prompt as a single user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		c.logger.Error("llm call failed", "model", c.model, "error", err)
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
