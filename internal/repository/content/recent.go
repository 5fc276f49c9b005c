package content

import (
	"context"
	"fmt"

	"github.com/decisionlab/unisearch/internal/domain"
)

// RecentItems serves the empty-query fallback: most recently touched cases
// and, scoped to one case, most recently created inquiries. No similarity
// ranking is involved.
type RecentItems struct {
	store store
}

// NewRecentItems creates the recent-items reader.
func NewRecentItems(s store) *RecentItems {
	return &RecentItems{store: s}
}

// RecentCases returns up to limit most-recently-updated cases.
func (r *RecentItems) RecentCases(ctx context.Context, limit int) ([]domain.Candidate, error) {
	return r.read(ctx, domain.TypeCase, recentIndexKey(domain.TypeCase), limit)
}

// RecentInquiries returns up to limit most-recently-created inquiries of one case.
func (r *RecentItems) RecentInquiries(ctx context.Context, caseID string, limit int) ([]domain.Candidate, error) {
	return r.read(ctx, domain.TypeInquiry, caseInquiriesKey(caseID), limit)
}

func (r *RecentItems) read(
	ctx context.Context, typ domain.ContentType, indexKey string, limit int,
) ([]domain.Candidate, error) {
	ids, err := r.store.ZRevRange(ctx, indexKey, limit)
	if err != nil {
		return nil, fmt.Errorf("recent %s ids: %w", typ, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entityKey(typ, id)
	}

	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read %s hashes: %w", typ, err)
	}

	out := make([]domain.Candidate, 0, len(hashes))
	for i, m := range hashes {
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(ids[i], typ, m))
	}
	return out, nil
}
