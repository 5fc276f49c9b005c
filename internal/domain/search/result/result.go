package result

import "github.com/decisionlab/unisearch/internal/domain"

// Scored is a candidate together with its similarity score. It exists only
// for the lifetime of one request.
type Scored struct {
	candidate domain.Candidate
	score     float64
	rank      int
}

// New creates a scored result. The rank is assigned later, after the
// per-source results are merged and globally sorted.
func New(candidate domain.Candidate, score float64) Scored {
	return Scored{candidate: candidate, score: score}
}

// WithRank returns a copy carrying the 1-based position in the merged pool.
func (s Scored) WithRank(rank int) Scored {
	s.rank = rank
	return s
}

// Candidate returns the underlying content record.
func (s *Scored) Candidate() domain.Candidate { return s.candidate }

// ID returns the content record identifier.
func (s *Scored) ID() string { return s.candidate.ID }

// Type returns the content type.
func (s *Scored) Type() domain.ContentType { return s.candidate.Type }

// Score returns the similarity score in [0,1].
func (s *Scored) Score() float64 { return s.score }

// Rank returns the 1-based position in the merged pool (0 before assignment).
func (s *Scored) Rank() int { return s.rank }

// UpdatedAt returns the entity's last-touch time in unix milliseconds.
func (s *Scored) UpdatedAt() int64 { return s.candidate.UpdatedAt }

// Response is the outcome of one search request. InContext and Other are
// disjoint partitions of the ranked pool; Recent is populated only on the
// empty-query path.
type Response struct {
	Query      string
	InContext  []Scored
	Other      []Scored
	Recent     []Scored
	TotalCount int
}
