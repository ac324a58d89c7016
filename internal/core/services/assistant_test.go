package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ewilliams-labs/songradar/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistant_Reply(t *testing.T) {
	completer := &mockCompleter{reply: "Try some Miles Davis 🎺"}
	a := NewAssistant(completer)
	history := domain.Conversation{
		{Role: domain.RoleUser, Content: "I like jazz"},
		{Role: domain.RoleAssistant, Content: "Great choice"},
	}

	reply, next, err := a.Reply(context.Background(), history, "What should I play?")

	require.NoError(t, err)
	assert.Equal(t, "Try some Miles Davis 🎺", reply)
	require.Len(t, completer.messages, 4)
	assert.Equal(t, domain.RoleSystem, completer.messages[0].Role)
	assert.Equal(t, SystemPrompt, completer.messages[0].Content)
	assert.Equal(t, "What should I play?", completer.messages[3].Content)
	require.Len(t, next, 4)
	assert.Equal(t, domain.RoleAssistant, next[3].Role)
	assert.Len(t, history, 2, "caller history must not be mutated")
}

func TestAssistant_ReplyErrors(t *testing.T) {
	a := NewAssistant(&mockCompleter{err: errors.New("rate limited")})

	_, history, err := a.Reply(context.Background(), nil, "hi")
	var up *domain.UpstreamError
	assert.True(t, errors.As(err, &up))
	assert.Empty(t, history)

	_, _, err = a.Reply(context.Background(), nil, " ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

// --- Mocks ---

type mockCompleter struct {
	reply    string
	err      error
	messages []domain.ChatMessage
}

func (m *mockCompleter) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	m.messages = messages
	return m.reply, m.err
}
