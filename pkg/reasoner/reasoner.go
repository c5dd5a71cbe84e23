// Package reasoner provides a client for OpenAI-compatible chat completion
// endpoints. Callers supply a system prompt and a user prompt and receive the
// raw completion text; prompt construction and response parsing belong to the
// domain packages.
package reasoner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client executes a single chat completion exchange.
type Client interface {
	// Ask sends a system and user message pair and returns the assistant's reply.
	Ask(ctx context.Context, system, user string) (string, error)
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

type client struct {
	http  *http.Client
	url   string
	token string
	model string
}

// New creates a Client from finalized configuration.
func New(cfg *Config) Client {
	return &client{
		http:  &http.Client{Timeout: cfg.TimeoutDuration()},
		url:   strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		token: cfg.Token,
		model: cfg.Model,
	}
}

// Ask posts a chat completion request with temperature 0 and returns the
// first choice's content. Validation verdicts must be reproducible, so the
// temperature is fixed rather than configurable.
func (c *client) Ask(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	var completion completionResponse
	if err := json.Unmarshal(payload, &completion); err != nil {
		return "", fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, resp.StatusCode, truncate(payload))
	}

	if completion.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrRefused, completion.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrRefused, resp.StatusCode, truncate(payload))
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformedResponse)
	}

	return completion.Choices[0].Message.Content, nil
}

func truncate(payload []byte) string {
	const max = 512
	if len(payload) > max {
		return string(payload[:max]) + "..."
	}
	return string(payload)
}
