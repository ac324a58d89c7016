package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
	"github.com/ewilliams-labs/songradar/internal/core/ports"
)

// SystemPrompt frames every chat completion.
const SystemPrompt = `You are MusicBot, an advanced AI music expert with deep knowledge of music across all genres, eras, and cultures. You help with:

1. Song recommendations based on mood, activity, occasion, genre or era, and similar artists and songs.
2. Music analysis: meaning, style and composition, historical context, genre evolution.
3. Artist information: background, discography highlights, collaborations and influences.
4. Music education: theory, genre characteristics, historical movements, instruments.
5. Playlist creation: themed, activity-based, genre-mixing and mood-based sets.

Format your responses with emojis and clear sections. Be conversational but informative.`

// Assistant answers music questions. History is owned by the caller and
// passed in on every call.
type Assistant struct {
	completer ports.ChatCompleter
}

// NewAssistant constructs an Assistant.
func NewAssistant(completer ports.ChatCompleter) *Assistant {
	return &Assistant{completer: completer}
}

// Reply sends history plus input to the completion service and returns the
// reply together with the extended history.
func (a *Assistant) Reply(ctx context.Context, history domain.Conversation, input string) (string, domain.Conversation, error) {
	if strings.TrimSpace(input) == "" {
		return "", history, ErrEmptyQuery
	}

	messages := make([]domain.ChatMessage, 0, len(history)+2)
	messages = append(messages, domain.ChatMessage{Role: domain.RoleSystem, Content: SystemPrompt})
	for _, msg := range history {
		if msg.Role == domain.RoleSystem {
			continue
		}
		messages = append(messages, msg)
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: input})

	reply, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return "", history, fmt.Errorf("service: chat completion failed: %w", domain.NewUpstreamError("chat", err))
	}

	next := history.
		Append(domain.ChatMessage{Role: domain.RoleUser, Content: input}).
		Append(domain.ChatMessage{Role: domain.RoleAssistant, Content: reply})
	return reply, next, nil
}
