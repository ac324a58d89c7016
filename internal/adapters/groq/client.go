// Package groq provides a chat completion adapter for Groq's
// OpenAI-compatible API.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

const (
	service = "groq"

	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "mixtral-8x7b-32768"

	temperature = 0.7
	maxTokens   = 800
)

// Client calls /chat/completions with a bearer API key.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// compile-time interface assertion
var _ ports.ChatCompleter = (*Client)(nil)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewClient builds a client whose requests carry apiKey as a bearer token.
// base supplies the transport and timeout and may be nil.
func NewClient(base *http.Client, baseURL, apiKey, model string) *Client {
	if base == nil {
		base = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: apiKey,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = base.Timeout

	return &Client{baseURL: baseURL, model: model, httpClient: httpClient}
}

// Complete returns the first choice's message content.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	payload := completionRequest{
		Model:       c.model,
		Messages:    make([]message, 0, len(messages)),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, message{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("groq: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("groq: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := upstream.Do(c.httpClient, service, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := upstream.DecodeJSON(service, resp.Body, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil {
		return "", &domain.UpstreamError{Service: service, Err: errors.New(parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", &domain.UpstreamError{Service: service, Err: errors.New("no choices in response")}
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if reply == "" {
		return "", &domain.UpstreamError{Service: service, Err: errors.New("empty response")}
	}
	return reply, nil
}
