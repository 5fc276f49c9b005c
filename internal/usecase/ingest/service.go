package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/decisionlab/unisearch/internal/domain"
)

// maxTextLength bounds the embeddable text accepted on the write path.
const maxTextLength = 32768

// Service is the entity write path: validate, embed the entity text, and
// persist hash plus recency index in one pass. Embeddings computed here
// are the "stored" vectors the search sources rank against.
type Service struct {
	embed    Embedder
	writer   Writer
	entities EntityStore
}

// New creates an ingest service.
func New(embed Embedder, writer Writer, entities EntityStore) *Service {
	return &Service{embed: embed, writer: writer, entities: entities}
}

// Upsert validates and stores one entity.
func (s *Service) Upsert(ctx context.Context, e *domain.Entity) error {
	if err := validate(e); err != nil {
		return err
	}

	emb, err := s.embed.Embed(ctx, e.Text)
	if err != nil {
		return fmt.Errorf("embed %s %s: %w", e.Type, e.ID, err)
	}

	if err := s.writer.Upsert(ctx, e, emb.Embedding); err != nil {
		return fmt.Errorf("upsert %s %s: %w", e.Type, e.ID, err)
	}
	return nil
}

// Get returns one stored entity.
func (s *Service) Get(ctx context.Context, typ domain.ContentType, id string) (domain.Candidate, error) {
	if id == "" {
		return domain.Candidate{}, fmt.Errorf("%w: entity id is required", domain.ErrInvalidRequest)
	}
	return s.entities.Get(ctx, typ, id)
}

// Delete removes one stored entity.
func (s *Service) Delete(ctx context.Context, typ domain.ContentType, id string) error {
	if id == "" {
		return fmt.Errorf("%w: entity id is required", domain.ErrInvalidRequest)
	}
	return s.entities.Delete(ctx, typ, id)
}

func validate(e *domain.Entity) error {
	if e.ID == "" {
		return fmt.Errorf("%w: entity id is required", domain.ErrInvalidRequest)
	}
	if !e.Type.IsValid() {
		return fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidRequest, e.Type)
	}
	if e.Title == "" {
		return fmt.Errorf("%w: entity title is required", domain.ErrInvalidRequest)
	}
	if strings.TrimSpace(e.Text) == "" {
		return fmt.Errorf("%w: entity text is required", domain.ErrInvalidRequest)
	}
	if len(e.Text) > maxTextLength {
		return fmt.Errorf("%w: entity text exceeds %d bytes", domain.ErrInvalidRequest, maxTextLength)
	}
	return nil
}
