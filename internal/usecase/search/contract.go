package search

import (
	"context"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
)

// Source fetches ranking candidates for one content type.
type Source interface {
	Type() domain.ContentType
	Fetch(ctx context.Context) ([]domain.Candidate, error)
}

// Collapser is implemented by sources whose ranked results must be
// deduplicated before merging (document chunks collapse to one result per
// parent document). Asserted optionally by the orchestrator.
type Collapser interface {
	Collapse(scored []result.Scored) []result.Scored
}

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// RecentReader serves the empty-query fallback.
type RecentReader interface {
	RecentCases(ctx context.Context, limit int) ([]domain.Candidate, error)
	RecentInquiries(ctx context.Context, caseID string, limit int) ([]domain.Candidate, error)
}
