package domain

import "fmt"

// ContentType identifies one of the searchable content kinds.
type ContentType string

const (
	TypeSignal   ContentType = "signal"
	TypeEvidence ContentType = "evidence"
	TypeInquiry  ContentType = "inquiry"
	TypeCase     ContentType = "case"
	TypeDocument ContentType = "document"
)

// AllContentTypes returns every searchable content type in fan-out order.
func AllContentTypes() []ContentType {
	return []ContentType{TypeSignal, TypeEvidence, TypeInquiry, TypeCase, TypeDocument}
}

// IsValid reports whether t is a known content type.
func (t ContentType) IsValid() bool {
	switch t {
	case TypeSignal, TypeEvidence, TypeInquiry, TypeCase, TypeDocument:
		return true
	}
	return false
}

// ParseContentType converts a wire tag into a ContentType.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: unknown content type %q", ErrInvalidRequest, s)
	}
	return t, nil
}

// CandidateCap returns the per-type limit on candidates considered for
// ranking in one request. The cap bounds fetch and scoring cost; candidate
// selection within it is recency-based.
func (t ContentType) CandidateCap() int {
	switch t {
	case TypeInquiry:
		return 100
	case TypeCase:
		return 50
	default:
		return 500
	}
}

// NeedsEmbeddingFallback reports whether records of this type may predate
// write-time embeddings and need one computed on demand at fetch time.
func (t ContentType) NeedsEmbeddingFallback() bool {
	return t == TypeInquiry || t == TypeCase
}
