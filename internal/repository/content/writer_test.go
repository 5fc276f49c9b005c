package content

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/decisionlab/unisearch/internal/domain"
)

// --- Mocks ---

type zaddCall struct {
	key    string
	member string
	score  float64
}

type mockWriteStore struct {
	hsets   map[string]map[string]string
	zadds   []zaddCall
	hsetErr error
	zaddErr error
}

func newMockWriteStore() *mockWriteStore {
	return &mockWriteStore{hsets: make(map[string]map[string]string)}
}

func (m *mockWriteStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetErr != nil {
		return m.hsetErr
	}
	m.hsets[key] = fields
	return nil
}

func (m *mockWriteStore) ZAdd(_ context.Context, key, member string, score float64) error {
	if m.zaddErr != nil {
		return m.zaddErr
	}
	m.zadds = append(m.zadds, zaddCall{key: key, member: member, score: score})
	return nil
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

// --- Tests ---

func TestUpsert_Signal(t *testing.T) {
	st := newMockWriteStore()
	w := NewWriter(st).WithClock(fixedClock(5000))

	e := &domain.Entity{ID: "s1", Type: domain.TypeSignal, Title: "spike", Text: "body"}
	if err := w.Upsert(context.Background(), e, []float32{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields, ok := st.hsets["unisearch:signal:s1"]
	if !ok {
		t.Fatalf("expected entity hash written, got %v", st.hsets)
	}
	if fields[fieldTitle] != "spike" || fields[fieldUpdatedAt] != "5000" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if fields[fieldEmbedding] != vectorToBytes([]float32{1, 2}) {
		t.Error("expected embedding stored with the entity")
	}

	if len(st.zadds) != 1 {
		t.Fatalf("expected 1 index update, got %d", len(st.zadds))
	}
	z := st.zadds[0]
	if z.key != "unisearch:idx:signal:recent" || z.member != "s1" || z.score != 5000 {
		t.Errorf("unexpected index update: %+v", z)
	}
}

func TestUpsert_InquiryIndexedPerCase(t *testing.T) {
	st := newMockWriteStore()
	w := NewWriter(st).WithClock(fixedClock(7000))

	e := &domain.Entity{ID: "i1", Type: domain.TypeInquiry, Title: "q", Text: "t", CaseID: "c9"}
	if err := w.Upsert(context.Background(), e, []float32{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(st.zadds) != 2 {
		t.Fatalf("expected recency and per-case index updates, got %d", len(st.zadds))
	}
	if st.zadds[1].key != "unisearch:idx:case:c9:inquiries" || st.zadds[1].member != "i1" {
		t.Errorf("unexpected per-case index update: %+v", st.zadds[1])
	}
}

func TestUpsert_DocumentChunkKeys(t *testing.T) {
	st := newMockWriteStore()
	w := NewWriter(st).WithClock(fixedClock(1))

	e := &domain.Entity{ID: "ch1", Type: domain.TypeDocument, Title: "report", Text: "t", ParentID: "doc1"}
	if err := w.Upsert(context.Background(), e, []float32{1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, ok := st.hsets["unisearch:chunk:ch1"]; !ok {
		t.Errorf("expected chunk key, got %v", st.hsets)
	}
	if st.zadds[0].key != "unisearch:idx:chunk:recent" {
		t.Errorf("expected chunk index, got %+v", st.zadds[0])
	}
}

func TestUpsert_DocumentRequiresParent(t *testing.T) {
	w := NewWriter(newMockWriteStore())

	e := &domain.Entity{ID: "ch1", Type: domain.TypeDocument, Title: "report", Text: "t"}
	err := w.Upsert(context.Background(), e, []float32{1})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUpsert_WriteError(t *testing.T) {
	st := newMockWriteStore()
	st.hsetErr = errors.New("oom")
	w := NewWriter(st)

	e := &domain.Entity{ID: "s1", Type: domain.TypeSignal, Title: "x", Text: "y"}
	if err := w.Upsert(context.Background(), e, []float32{1}); err == nil {
		t.Error("expected error")
	}
}
