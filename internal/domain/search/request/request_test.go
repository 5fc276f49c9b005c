package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/decisionlab/unisearch/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	q, err := New("anomaly", domain.SearchContext{}, nil, 0, DefaultThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.TopK() != DefaultTopK {
		t.Errorf("expected default top_k %d, got %d", DefaultTopK, q.TopK())
	}
	if len(q.Types()) != len(domain.AllContentTypes()) {
		t.Errorf("expected all content types, got %v", q.Types())
	}
	if q.Threshold() != DefaultThreshold {
		t.Errorf("expected threshold %v, got %v", DefaultThreshold, q.Threshold())
	}
}

func TestNew_TopKClampedToMax(t *testing.T) {
	q, err := New("x", domain.SearchContext{}, nil, 5000, 0.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.TopK() != MaxTopK {
		t.Errorf("expected top_k clamped to %d, got %d", MaxTopK, q.TopK())
	}
}

func TestNew_NegativeTopK(t *testing.T) {
	_, err := New("x", domain.SearchContext{}, nil, -1, 0.4)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_ThresholdRange(t *testing.T) {
	for _, bad := range []float64{-0.1, 1.1} {
		if _, err := New("x", domain.SearchContext{}, nil, 0, bad); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("threshold %v: expected ErrInvalidRequest, got %v", bad, err)
		}
	}
	// Explicit zero is a valid "keep everything" threshold.
	q, err := New("x", domain.SearchContext{}, nil, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Threshold() != 0 {
		t.Errorf("expected threshold 0 preserved, got %v", q.Threshold())
	}
}

func TestNew_UnknownType(t *testing.T) {
	_, err := New("x", domain.SearchContext{}, []domain.ContentType{"widget"}, 0, 0.4)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestNew_DeduplicatesTypes(t *testing.T) {
	q, err := New("x", domain.SearchContext{},
		[]domain.ContentType{domain.TypeSignal, domain.TypeSignal, domain.TypeCase}, 0, 0.4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Types()) != 2 {
		t.Errorf("expected deduplicated types, got %v", q.Types())
	}
}

func TestNew_QueryTooLong(t *testing.T) {
	_, err := New(strings.Repeat("a", MaxQueryLength+1), domain.SearchContext{}, nil, 0, 0.4)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestIsEmpty(t *testing.T) {
	for text, want := range map[string]bool{
		"":        true,
		"   \t":   true,
		"anomaly": false,
	} {
		q, err := New(text, domain.SearchContext{}, nil, 0, 0.4)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.IsEmpty() != want {
			t.Errorf("IsEmpty(%q): expected %v", text, want)
		}
	}
}
