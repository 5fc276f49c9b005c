package request

import (
	"fmt"
	"strings"

	"github.com/decisionlab/unisearch/internal/domain"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultTopK    = 20
	MaxTopK        = 100
	// DefaultThreshold is the minimum cosine score kept when the caller
	// does not supply one.
	DefaultThreshold = 0.4
)

// Query is a validated, immutable search request.
type Query struct {
	text      string
	context   domain.SearchContext
	types     []domain.ContentType
	topK      int
	threshold float64
}

// New validates and normalizes search parameters.
// An empty query text is valid and routes to the recent-items fallback.
// topK=0 means "use default"; an empty type set means all types.
func New(
	text string,
	sctx domain.SearchContext,
	types []domain.ContentType,
	topK int,
	threshold float64,
) (Query, error) {
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if topK < 0 {
		return Query{}, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidRequest)
	}
	if topK == 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}
	if threshold < 0 || threshold > 1 {
		return Query{}, fmt.Errorf("%w: threshold must be between 0 and 1", domain.ErrInvalidRequest)
	}

	if len(types) == 0 {
		types = domain.AllContentTypes()
	}
	seen := make(map[domain.ContentType]struct{}, len(types))
	normalized := make([]domain.ContentType, 0, len(types))
	for _, t := range types {
		if !t.IsValid() {
			return Query{}, fmt.Errorf("%w: unknown content type %q", domain.ErrInvalidRequest, t)
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		normalized = append(normalized, t)
	}

	return Query{
		text:      text,
		context:   sctx,
		types:     normalized,
		topK:      topK,
		threshold: threshold,
	}, nil
}

// Text returns the raw query text.
func (q *Query) Text() string { return q.text }

// Context returns the caller's working context.
func (q *Query) Context() domain.SearchContext { return q.context }

// Types returns the requested content types (never empty).
func (q *Query) Types() []domain.ContentType { return q.types }

// TopK returns the per-partition result cap.
func (q *Query) TopK() int { return q.topK }

// Threshold returns the minimum similarity score kept.
func (q *Query) Threshold() float64 { return q.threshold }

// IsEmpty reports whether the query text is empty or whitespace-only.
func (q *Query) IsEmpty() bool { return strings.TrimSpace(q.text) == "" }
