package search

import (
	"math"
	"testing"

	"github.com/decisionlab/unisearch/internal/domain"
)

const eps = 1e-6

func cand(id string, vec []float32, updatedAt int64) domain.Candidate {
	return domain.Candidate{ID: id, Type: domain.TypeSignal, Embedding: vec, UpdatedAt: updatedAt}
}

func TestCosineScore_Identity(t *testing.T) {
	q := []float32{1, 2, 3}
	got := cosineScore(q, vectorNorm(q), []float32{1, 2, 3})
	if math.Abs(got-1) > eps {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestCosineScore_ScaleInvariant(t *testing.T) {
	q := []float32{1, 2, 3}
	a := cosineScore(q, vectorNorm(q), []float32{2, 0, 1})
	b := cosineScore(q, vectorNorm(q), []float32{8, 0, 4})
	if math.Abs(a-b) > eps {
		t.Errorf("expected scale-invariant score, got %v and %v", a, b)
	}
}

func TestCosineScore_ZeroVectors(t *testing.T) {
	q := []float32{1, 0}
	if got := cosineScore(q, vectorNorm(q), []float32{0, 0}); got != 0 {
		t.Errorf("zero candidate: expected 0, got %v", got)
	}
	zq := []float32{0, 0}
	if got := cosineScore(zq, vectorNorm(zq), []float32{1, 0}); got != 0 {
		t.Errorf("zero query: expected 0, got %v", got)
	}
}

func TestCosineScore_DimensionMismatch(t *testing.T) {
	q := []float32{1, 0, 0}
	if got := cosineScore(q, vectorNorm(q), []float32{1, 0}); got != 0 {
		t.Errorf("expected 0 for mismatched dimensions, got %v", got)
	}
}

func TestCosineScore_NegativeFlooredAtZero(t *testing.T) {
	q := []float32{1, 0}
	if got := cosineScore(q, vectorNorm(q), []float32{-1, 0}); got != 0 {
		t.Errorf("expected opposite vectors to score 0, got %v", got)
	}
}

func TestRankCandidates_ThresholdInclusive(t *testing.T) {
	q := []float32{1, 0}
	cands := []domain.Candidate{
		cand("exact", []float32{2, 0}, 0),   // score 1
		cand("below", []float32{1, 1}, 0),   // score ~0.707
		cand("ortho", []float32{0, 1}, 0),   // score 0
	}

	got := rankCandidates(q, cands, 1.0)
	if len(got) != 1 {
		t.Fatalf("expected 1 result, got %d", len(got))
	}
	if got[0].ID() != "exact" {
		t.Errorf("expected result at the threshold to survive, got %q", got[0].ID())
	}
}

func TestRankCandidates_SortedByScoreDesc(t *testing.T) {
	q := []float32{1, 0}
	cands := []domain.Candidate{
		cand("mid", []float32{1, 1}, 0),
		cand("top", []float32{1, 0}, 0),
		cand("low", []float32{1, 3}, 0),
	}

	got := rankCandidates(q, cands, 0)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	want := []string{"top", "mid", "low"}
	for i, id := range want {
		if got[i].ID() != id {
			t.Errorf("position %d: expected %q, got %q", i, id, got[i].ID())
		}
	}
}

func TestSortScored_TieBreaksByRecencyThenID(t *testing.T) {
	q := []float32{1, 0}
	cands := []domain.Candidate{
		cand("b", []float32{1, 0}, 100),
		cand("a", []float32{2, 0}, 100),
		cand("c", []float32{4, 0}, 200),
	}

	got := rankCandidates(q, cands, 0)
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if got[i].ID() != id {
			t.Errorf("position %d: expected %q, got %q", i, id, got[i].ID())
		}
	}
}

func TestRankCandidates_Empty(t *testing.T) {
	got := rankCandidates([]float32{1, 0}, nil, 0.4)
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}
