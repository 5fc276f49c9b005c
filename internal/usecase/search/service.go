package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/decisionlab/unisearch/internal/domain"
	"github.com/decisionlab/unisearch/internal/domain/search/request"
	"github.com/decisionlab/unisearch/internal/domain/search/result"
	"github.com/decisionlab/unisearch/internal/logger"
	"github.com/decisionlab/unisearch/internal/metrics"
)

// Fallback limits for the empty-query path.
const (
	recentCasesLimit     = 5
	recentInquiriesLimit = 3
)

// sourceWorkers bounds the fan-out: one worker per content type.
const sourceWorkers = 5

const defaultSourceTimeout = 300 * time.Millisecond

// Service orchestrates a search request: query embedding, concurrent
// per-type candidate fetch, per-source ranking, global merge, and context
// grouping. One failed source degrades to an empty contribution; only a
// failed query embedding fails the whole request.
type Service struct {
	embed         Embedder
	sources       []Source
	recent        RecentReader
	sourceTimeout time.Duration
}

// New creates a search service.
func New(embed Embedder, sources []Source, recent RecentReader) *Service {
	return &Service{
		embed:         embed,
		sources:       sources,
		recent:        recent,
		sourceTimeout: defaultSourceTimeout,
	}
}

// WithSourceTimeout overrides the per-source fetch deadline.
func (s *Service) WithSourceTimeout(d time.Duration) *Service {
	if d > 0 {
		s.sourceTimeout = d
	}
	return s
}

// Search executes one search request.
func (s *Service) Search(ctx context.Context, q *request.Query) (result.Response, error) {
	if q.IsEmpty() {
		return s.recentFallback(ctx, q), nil
	}

	emb, err := s.embed.Embed(ctx, q.Text())
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
		return result.Response{}, fmt.Errorf("embed query: %w", err)
	}

	wanted := s.selectSources(q.Types())
	perSource := make([][]result.Scored, len(wanted))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sourceWorkers)
	for i, src := range wanted {
		i, src := i, src
		g.Go(func() error {
			// Failures are converted to empty contributions inside
			// fetchAndRank; a degraded source never aborts siblings.
			perSource[i] = s.fetchAndRank(gctx, src, emb.Embedding, q.Threshold())
			return nil
		})
	}
	_ = g.Wait()

	var pool []result.Scored
	for _, scored := range perSource {
		pool = append(pool, scored...)
	}
	sortScored(pool)
	for i := range pool {
		pool[i] = pool[i].WithRank(i + 1)
	}

	inContext, other := groupByContext(pool, q.Context(), q.TopK())

	return result.Response{
		Query:      q.Text(),
		InContext:  inContext,
		Other:      other,
		TotalCount: len(pool),
	}, nil
}

// fetchAndRank runs one source under its own deadline and ranks its
// candidates against the shared query vector. Ranking close to the source
// bounds peak memory and lets a degraded source fail without blocking the
// ranking of the others.
func (s *Service) fetchAndRank(
	ctx context.Context, src Source, queryVec []float32, threshold float64,
) []result.Scored {
	sctx, cancel := context.WithTimeout(ctx, s.sourceTimeout)
	defer cancel()

	start := time.Now()
	cands, err := src.Fetch(sctx)
	if err != nil {
		reason := "error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		metrics.SourceDegradedTotal.WithLabelValues(string(src.Type()), reason).Inc()
		logger.FromContext(ctx).Warn("Content source degraded",
			zap.String("source", string(src.Type())), zap.Error(err))
		return nil
	}

	scored := rankCandidates(queryVec, cands, threshold)
	if c, ok := src.(Collapser); ok {
		scored = c.Collapse(scored)
	}

	metrics.SourceFetchDuration.WithLabelValues(string(src.Type())).Observe(time.Since(start).Seconds())
	return scored
}

// recentFallback answers empty queries with recently touched items. Read
// errors degrade to an empty list; recency is not similarity, so every
// entry carries a synthetic score of 0.
func (s *Service) recentFallback(ctx context.Context, q *request.Query) result.Response {
	recent := make([]result.Scored, 0, recentCasesLimit+recentInquiriesLimit)

	cases, err := s.recent.RecentCases(ctx, recentCasesLimit)
	if err != nil {
		logger.FromContext(ctx).Warn("Recent cases unavailable", zap.Error(err))
	}
	for _, c := range cases {
		recent = append(recent, result.New(c, 0))
	}

	if caseID := q.Context().CaseID; caseID != "" {
		inquiries, err := s.recent.RecentInquiries(ctx, caseID, recentInquiriesLimit)
		if err != nil {
			logger.FromContext(ctx).Warn("Recent inquiries unavailable",
				zap.String("case_id", caseID), zap.Error(err))
		}
		for _, c := range inquiries {
			recent = append(recent, result.New(c, 0))
		}
	}

	for i := range recent {
		recent[i] = recent[i].WithRank(i + 1)
	}

	return result.Response{
		Query:      q.Text(),
		Recent:     recent,
		TotalCount: len(recent),
	}
}

func (s *Service) selectSources(types []domain.ContentType) []Source {
	wanted := make(map[domain.ContentType]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	out := make([]Source, 0, len(s.sources))
	for _, src := range s.sources {
		if _, ok := wanted[src.Type()]; ok {
			out = append(out, src)
		}
	}
	return out
}
