// Package ollama provides a chat completion adapter for a local Ollama
// instance. Conversation history is supplied by the caller on every call.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/adapters/upstream"
	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

const (
	service = "ollama"

	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1"

	temperature = 0.7
	maxTokens   = 800
)

type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// compile-time interface assertion
var _ ports.ChatCompleter = (*Client)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Error   string      `json:"error,omitempty"`
}

func NewClient(httpClient *http.Client, baseURL, model string) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
	}
}

// Complete sends the full message list and returns the assistant's reply.
func (c *Client) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	payload := chatRequest{
		Model:    c.model,
		Stream:   false,
		Messages: make([]chatMessage, 0, len(messages)),
		Options:  chatOptions{Temperature: temperature, NumPredict: maxTokens},
	}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := upstream.Do(c.httpClient, service, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var parsed chatResponse
	if err := upstream.DecodeJSON(service, resp.Body, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != "" {
		return "", &domain.UpstreamError{Service: service, Err: errors.New(parsed.Error)}
	}

	reply := strings.TrimSpace(parsed.Message.Content)
	if reply == "" {
		return "", &domain.UpstreamError{Service: service, Err: errors.New("empty response")}
	}
	return reply, nil
}
