package search

import (
	"math"
	"sort"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
)

// rankCandidates scores every candidate against the query vector, drops
// scores strictly below threshold, and returns the survivors sorted by
// score descending. The query norm is computed once; each candidate costs
// one fused dot+norm pass with no per-pair allocation.
func rankCandidates(query []float32, cands []domain.Candidate, threshold float64) []result.Scored {
	qnorm := vectorNorm(query)

	out := make([]result.Scored, 0, len(cands))
	for _, c := range cands {
		score := cosineScore(query, qnorm, c.Embedding)
		if score < threshold {
			continue
		}
		out = append(out, result.New(c, score))
	}

	sortScored(out)
	return out
}

// sortScored orders by score descending; ties break by descending entity
// recency, then id, so result order is deterministic for identical data.
func sortScored(scored []result.Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := &scored[i], &scored[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.UpdatedAt() != b.UpdatedAt() {
			return a.UpdatedAt() > b.UpdatedAt()
		}
		return a.ID() < b.ID()
	})
}

// cosineScore computes dot(q,v)/(‖q‖·‖v‖) clamped to [-1,1], then floors
// negatives at 0 so the exposed score stays in unit range. Zero-norm or
// mismatched vectors score 0 rather than producing NaN.
func cosineScore(q []float32, qnorm float64, v []float32) float64 {
	if qnorm == 0 || len(v) != len(q) || len(v) == 0 {
		return 0
	}

	var dot, vv float64
	for i, x := range q {
		y := float64(v[i])
		dot += float64(x) * y
		vv += y * y
	}
	if vv == 0 {
		return 0
	}

	cos := dot / (qnorm * math.Sqrt(vv))
	switch {
	case cos > 1:
		cos = 1
	case cos < 0:
		// clamp [-1,0) to 0: anti-correlated vectors are simply irrelevant
		cos = 0
	}
	return cos
}

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
