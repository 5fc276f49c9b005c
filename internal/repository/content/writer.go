package content

import (
	"context"
	"fmt"
	"time"

	"github.com/decisionlab/unisearch/internal/domain"
)

// writeStore is the consumer interface for the write path (ISP).
type writeStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	ZAdd(ctx context.Context, key, member string, score float64) error
}

// Writer persists entities with their write-time embedding and maintains
// the recency indexes the sources read from.
type Writer struct {
	store writeStore
	now   func() time.Time
}

// NewWriter creates an entity writer.
func NewWriter(s writeStore) *Writer {
	return &Writer{store: s, now: time.Now}
}

// WithClock substitutes the clock, for tests.
func (w *Writer) WithClock(now func() time.Time) *Writer {
	w.now = now
	return w
}

// Upsert stores the entity hash and bumps it in the recency index.
// Document entities are chunk-level records and must carry a ParentID.
func (w *Writer) Upsert(ctx context.Context, e *domain.Entity, vec []float32) error {
	if e.Type == domain.TypeDocument && e.ParentID == "" {
		return fmt.Errorf("%w: document chunk requires a parent document id", domain.ErrInvalidRequest)
	}

	updatedAt := w.now().UnixMilli()
	key := storageKey(e.Type, e.ID)
	indexKey := recentIndexKey(e.Type)
	if e.Type == domain.TypeDocument {
		indexKey = chunkIndexKey()
	}

	if err := w.store.HSet(ctx, key, buildHashFields(e, vec, updatedAt)); err != nil {
		return fmt.Errorf("write %s %s: %w", e.Type, e.ID, err)
	}
	if err := w.store.ZAdd(ctx, indexKey, e.ID, float64(updatedAt)); err != nil {
		return fmt.Errorf("index %s %s: %w", e.Type, e.ID, err)
	}

	// Inquiries are additionally indexed per case for the recent-items fallback.
	if e.Type == domain.TypeInquiry && e.CaseID != "" {
		if err := w.store.ZAdd(ctx, caseInquiriesKey(e.CaseID), e.ID, float64(updatedAt)); err != nil {
			return fmt.Errorf("index case inquiries %s: %w", e.ID, err)
		}
	}

	return nil
}
