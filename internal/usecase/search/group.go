package search

import (
	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
)

// groupByContext partitions the ranked pool into in-context and other.
// A result is in-context iff its case matches the caller's case or its
// project matches the caller's project. Both partitions are truncated to
// topK after partitioning, not before: context match is a hard partition
// and score only orders within it, so a low-scoring in-context result can
// outrank a high-scoring out-of-context one.
func groupByContext(
	pool []result.Scored, sctx domain.SearchContext, topK int,
) (inContext, other []result.Scored) {
	if sctx.IsZero() {
		return nil, truncate(pool, topK)
	}

	for _, r := range pool {
		if matchesContext(r.Candidate(), sctx) {
			inContext = append(inContext, r)
		} else {
			other = append(other, r)
		}
	}

	return truncate(inContext, topK), truncate(other, topK)
}

func matchesContext(c domain.Candidate, sctx domain.SearchContext) bool {
	if sctx.CaseID != "" && c.CaseID == sctx.CaseID {
		return true
	}
	if sctx.ProjectID != "" && c.ProjectID == sctx.ProjectID {
		return true
	}
	return false
}

func truncate(scored []result.Scored, limit int) []result.Scored {
	if len(scored) > limit {
		return scored[:limit]
	}
	return scored
}
