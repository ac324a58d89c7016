package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

func TestClient_Complete(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		want         string
		wantErr      bool
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"  Try Kind of Blue 🎺 "}}`,
			want:         "Try Kind of Blue 🎺",
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantErr:      true,
		},
		{
			name:         "Error field on 200",
			status:       http.StatusOK,
			responseBody: `{"error":"model not found"}`,
			wantErr:      true,
		},
		{
			name:         "Empty content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"   "}}`,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.Client(), srv.URL, "llama3.1")
			reply, err := client.Complete(context.Background(), []domain.ChatMessage{
				{Role: domain.RoleSystem, Content: "be helpful"},
				{Role: domain.RoleUser, Content: "test message"},
			})

			if (err != nil) != tt.wantErr {
				t.Fatalf("expected err=%v, got %v", tt.wantErr, err)
			}
			if tt.wantErr {
				var up *domain.UpstreamError
				if !errors.As(err, &up) {
					t.Fatalf("expected UpstreamError, got %T", err)
				}
				return
			}
			if reply != tt.want {
				t.Fatalf("expected reply %q, got %q", tt.want, reply)
			}
			if gotRequest.Model != "llama3.1" {
				t.Fatalf("expected model llama3.1, got %q", gotRequest.Model)
			}
			if gotRequest.Stream {
				t.Fatalf("expected stream=false")
			}
			if gotRequest.Options.Temperature != temperature || gotRequest.Options.NumPredict != maxTokens {
				t.Fatalf("unexpected options %+v", gotRequest.Options)
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[1].Content != "test message" {
				t.Fatalf("message mismatch: %+v", gotRequest.Messages)
			}
		})
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil, "", "")
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected %q, got %q", defaultBaseURL, c.baseURL)
	}
	if c.model != defaultModel {
		t.Fatalf("expected %q, got %q", defaultModel, c.model)
	}
}
