// Package content implements the per-type candidate sources over Redis:
// recency-indexed entity hashes with stored embeddings, on-demand embedding
// backfill for inquiries and cases, and the recent-items fallback reader.
package content

import (
	"context"
	"fmt"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/logger"
	"github.com/decisionlab/unisearch/internal/metrics"

	"go.uber.org/zap"
)

// store is the consumer interface for content sources (ISP).
type store interface {
	ZRevRange(ctx context.Context, key string, limit int) ([]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
}

// Source fetches ranking candidates of one content type. Candidate
// selection is recency-based and capped per type before any ranking; the
// cap is a cost control, not a relevance filter.
type Source struct {
	typ   domain.ContentType
	store store
	// embed is set only for types whose records may lack a stored
	// embedding (inquiry, case) and is used to compute one on demand.
	embed domain.Embedder
}

// NewSignals creates the signal source. Signal embeddings are stored at
// write time; records without one are skipped.
func NewSignals(s store) *Source {
	return &Source{typ: domain.TypeSignal, store: s}
}

// NewEvidence creates the evidence source.
func NewEvidence(s store) *Source {
	return &Source{typ: domain.TypeEvidence, store: s}
}

// NewInquiries creates the inquiry source with on-demand embedding fallback.
func NewInquiries(s store, embed domain.Embedder) *Source {
	return &Source{typ: domain.TypeInquiry, store: s, embed: embed}
}

// NewCases creates the case source with on-demand embedding fallback.
func NewCases(s store, embed domain.Embedder) *Source {
	return &Source{typ: domain.TypeCase, store: s, embed: embed}
}

// Type returns the content type this source serves.
func (s *Source) Type() domain.ContentType { return s.typ }

// Fetch returns up to the per-type cap of the most recently touched
// records, newest first. Records the index points at but whose hash is gone
// are dropped silently.
func (s *Source) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	ids, err := s.store.ZRevRange(ctx, recentIndexKey(s.typ), s.typ.CandidateCap())
	if err != nil {
		return nil, fmt.Errorf("recent %s ids: %w", s.typ, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entityKey(s.typ, id)
	}

	hashes, err := s.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %s hashes: %w", s.typ, err)
	}

	out := make([]domain.Candidate, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		cand := parseHashFields(ids[i], s.typ, m)
		if len(cand.Embedding) == 0 {
			vec, ok := s.embedOnDemand(ctx, ids[i], m[fieldText])
			if !ok {
				continue
			}
			cand.Embedding = vec
		}
		out = append(out, cand)
	}
	return out, nil
}

// embedOnDemand computes a missing embedding at fetch time and backfills it
// with a conditional write. The transition absent->present happens at most
// once per entity: a lost HSETNX race means another request already wrote
// the same value (the embedding is a pure function of the text). A failed
// write is non-fatal; the in-memory vector still ranks this request.
func (s *Source) embedOnDemand(ctx context.Context, id, text string) ([]float32, bool) {
	if s.embed == nil || text == "" {
		return nil, false
	}

	result, err := s.embed.Embed(ctx, text)
	if err != nil {
		logger.FromContext(ctx).Warn("On-demand embedding failed",
			zap.String("type", string(s.typ)), zap.String("id", id), zap.Error(err))
		return nil, false
	}

	set, err := s.store.HSetNX(ctx, entityKey(s.typ, id), fieldEmbedding, vectorToBytes(result.Embedding))
	switch {
	case err != nil:
		metrics.EmbeddingBackfillTotal.WithLabelValues(string(s.typ), "write_failed").Inc()
		logger.FromContext(ctx).Warn("Embedding backfill write failed",
			zap.String("type", string(s.typ)), zap.String("id", id), zap.Error(err))
	case set:
		metrics.EmbeddingBackfillTotal.WithLabelValues(string(s.typ), "persisted").Inc()
	default:
		metrics.EmbeddingBackfillTotal.WithLabelValues(string(s.typ), "lost_race").Inc()
	}

	return result.Embedding, true
}
