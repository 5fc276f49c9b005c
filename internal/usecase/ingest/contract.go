package ingest

import (
	"context"

	"github.com/decisionlab/unisearch/internal/domain"
)

// Embedder vectorizes entity text at write time.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Writer persists entities with their embedding.
type Writer interface {
	Upsert(ctx context.Context, e *domain.Entity, vec []float32) error
}

// EntityStore reads back and removes stored entities.
type EntityStore interface {
	Get(ctx context.Context, typ domain.ContentType, id string) (domain.Candidate, error)
	Delete(ctx context.Context, typ domain.ContentType, id string) error
}
