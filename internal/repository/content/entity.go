package content

import (
	"context"
	"fmt"

	"github.com/decisionlab/unisearch/internal/domain"
)

// entityStore is the consumer interface for single-entity reads and deletes (ISP).
type entityStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Entities reads back and removes individual stored entities.
type Entities struct {
	store entityStore
}

// NewEntities creates the single-entity accessor.
func NewEntities(s entityStore) *Entities {
	return &Entities{store: s}
}

// Get returns one stored entity as a candidate record.
func (r *Entities) Get(ctx context.Context, typ domain.ContentType, id string) (domain.Candidate, error) {
	m, err := r.store.HGetAll(ctx, storageKey(typ, id))
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("read %s %s: %w", typ, id, err)
	}
	if len(m) == 0 {
		return domain.Candidate{}, fmt.Errorf("%w: %s %s", domain.ErrNotFound, typ, id)
	}
	return parseHashFields(id, typ, m), nil
}

// Delete removes the entity hash. The recency index entry is left behind
// and skipped by sources as a dangling reference until it ages out of the
// candidate window.
func (r *Entities) Delete(ctx context.Context, typ domain.ContentType, id string) error {
	if err := r.store.Del(ctx, storageKey(typ, id)); err != nil {
		return fmt.Errorf("delete %s %s: %w", typ, id, err)
	}
	return nil
}

func storageKey(typ domain.ContentType, id string) string {
	if typ == domain.TypeDocument {
		return chunkKey(id)
	}
	return entityKey(typ, id)
}
