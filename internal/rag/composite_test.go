package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type stubRetriever struct {
	chunks []Chunk
	err    error
	calls  int
}

func (s *stubRetriever) Retrieve(ctx context.Context, businessID uuid.UUID, query string, topK int) ([]Chunk, error) {
	s.calls++
	return s.chunks, s.err
}

func TestCompositePrefersPrimary(t *testing.T) {
	primary := &stubRetriever{chunks: []Chunk{{Content: "semantic hit"}}}
	secondary := &stubRetriever{chunks: []Chunk{{Content: "keyword hit"}}}

	composite := NewCompositeRetriever(primary, secondary, nil)
	chunks, err := composite.Retrieve(context.Background(), uuid.New(), "query", 4)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if len(chunks) != 1 || chunks[0].Content != "semantic hit" {
		t.Errorf("expected primary result, got %v", chunks)
	}
	if secondary.calls != 0 {
		t.Error("secondary should not run when primary succeeds")
	}
}

func TestCompositeFallsBackOnPrimaryError(t *testing.T) {
	primary := &stubRetriever{err: errors.New("qdrant down")}
	secondary := &stubRetriever{chunks: []Chunk{{Content: "keyword hit"}}}

	composite := NewCompositeRetriever(primary, secondary, nil)
	chunks, err := composite.Retrieve(context.Background(), uuid.New(), "query", 4)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if len(chunks) != 1 || chunks[0].Content != "keyword hit" {
		t.Errorf("expected fallback result, got %v", chunks)
	}
}

func TestCompositeFallsBackOnEmptyPrimary(t *testing.T) {
	primary := &stubRetriever{}
	secondary := &stubRetriever{chunks: []Chunk{{Content: "keyword hit"}}}

	composite := NewCompositeRetriever(primary, secondary, nil)
	chunks, _ := composite.Retrieve(context.Background(), uuid.New(), "query", 4)

	if len(chunks) != 1 || chunks[0].Content != "keyword hit" {
		t.Errorf("expected fallback on empty primary, got %v", chunks)
	}
}

func TestCompositeDegradesToEmpty(t *testing.T) {
	primary := &stubRetriever{err: errors.New("qdrant down")}
	secondary := &stubRetriever{err: errors.New("db down")}

	composite := NewCompositeRetriever(primary, secondary, nil)
	chunks, err := composite.Retrieve(context.Background(), uuid.New(), "query", 4)

	if err != nil {
		t.Fatalf("retrieval must degrade, not fail: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected empty result, got %v", chunks)
	}
}

func TestCompositeNilPrimary(t *testing.T) {
	secondary := &stubRetriever{chunks: []Chunk{{Content: "keyword hit"}}}

	composite := NewCompositeRetriever(nil, secondary, nil)
	chunks, err := composite.Retrieve(context.Background(), uuid.New(), "query", 4)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(chunks) != 1 {
		t.Errorf("expected secondary result, got %v", chunks)
	}
}
