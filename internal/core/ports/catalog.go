package ports

import (
	"context"

	"github.com/ewilliams-labs/songradar/internal/core/domain"
)

// CatalogSource loads the static recommendation dataset.
type CatalogSource interface {
	LoadCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// ClipStore keeps recorded samples so identification results can reference
// them. Put returns the new clip's reference.
type ClipStore interface {
	Put(data []byte, contentType string) (string, error)
}
