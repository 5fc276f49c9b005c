package content

import (
	"context"
	"fmt"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
)

// DocumentSource fetches document chunks. Each candidate carries its parent
// document id; after ranking, Collapse keeps only the best-scoring chunk
// per document, so one document never appears twice in a response.
type DocumentSource struct {
	store store
}

// NewDocuments creates the document chunk source. Chunk embeddings are
// stored at write time; chunks without one are skipped.
func NewDocuments(s store) *DocumentSource {
	return &DocumentSource{store: s}
}

// Type returns the content type this source serves.
func (s *DocumentSource) Type() domain.ContentType { return domain.TypeDocument }

// Fetch returns up to the document cap of the most recent chunks.
func (s *DocumentSource) Fetch(ctx context.Context) ([]domain.Candidate, error) {
	ids, err := s.store.ZRevRange(ctx, chunkIndexKey(), domain.TypeDocument.CandidateCap())
	if err != nil {
		return nil, fmt.Errorf("recent chunk ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chunkKey(id)
	}

	hashes, err := s.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read chunk hashes: %w", err)
	}

	out := make([]domain.Candidate, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		cand := parseHashFields(ids[i], domain.TypeDocument, m)
		if len(cand.Embedding) == 0 {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

// Collapse deduplicates ranked chunks to one result per parent document,
// keeping the highest-scoring chunk. Input must be sorted by score
// descending, which the ranker guarantees.
func (s *DocumentSource) Collapse(scored []result.Scored) []result.Scored {
	seen := make(map[string]struct{}, len(scored))
	out := scored[:0]
	for _, r := range scored {
		if _, dup := seen[r.ID()]; dup {
			continue
		}
		seen[r.ID()] = struct{}{}
		out = append(out, r)
	}
	return out
}
