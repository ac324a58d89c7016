package ports

import (
	"context"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

// ChatCompleter is an opaque text-completion service.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []domain.ChatMessage) (string, error)
}
