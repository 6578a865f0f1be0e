package rag

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestQueryTermsDropsStopwordsAndShortTokens(t *testing.T) {
	terms := QueryTerms("What are your opening hours on a Monday?")

	want := map[string]bool{"opening": true, "hours": true, "monday": true}
	if len(terms) != len(want) {
		t.Fatalf("expected %d terms, got %v", len(want), terms)
	}
	for _, term := range terms {
		if !want[term] {
			t.Errorf("unexpected term %q", term)
		}
	}
}

func TestQueryTermsDeduplicates(t *testing.T) {
	terms := QueryTerms("price price PRICE pricing")
	count := 0
	for _, term := range terms {
		if term == "price" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one occurrence of price, got %v", terms)
	}
}

func TestScoreOverlap(t *testing.T) {
	terms := []string{"haircut", "price"}

	if got := ScoreOverlap(terms, "A haircut costs 30 euro, see the price list."); got != 1.0 {
		t.Errorf("expected full overlap, got %f", got)
	}
	if got := ScoreOverlap(terms, "We sell haircuts."); got != 0.5 {
		t.Errorf("expected half overlap, got %f", got)
	}
	if got := ScoreOverlap(terms, "Unrelated text."); got != 0 {
		t.Errorf("expected zero overlap, got %f", got)
	}
}

type fakeSearcher struct {
	chunks []StoredChunk
	err    error
}

func (f *fakeSearcher) SearchByTerms(ctx context.Context, businessID uuid.UUID, terms []string, limit int) ([]StoredChunk, error) {
	return f.chunks, f.err
}

func TestKeywordRetrieverRanksByOverlap(t *testing.T) {
	businessID := uuid.New()
	now := time.Now()
	searcher := &fakeSearcher{chunks: []StoredChunk{
		{ID: uuid.New(), Content: "We are open weekdays.", CreatedAt: now},
		{ID: uuid.New(), Content: "Haircut price list: 30 euro for a standard haircut.", CreatedAt: now},
		{ID: uuid.New(), Content: "The price of coloring varies.", CreatedAt: now},
	}}

	retriever := NewKeywordRetriever(searcher)
	chunks, err := retriever.Retrieve(context.Background(), businessID, "haircut price", 2)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected topK=2 chunks, got %d", len(chunks))
	}
	if chunks[0].Score < chunks[1].Score {
		t.Error("chunks must be ordered by descending score")
	}
	if chunks[0].Content != "Haircut price list: 30 euro for a standard haircut." {
		t.Errorf("best match wrong: %q", chunks[0].Content)
	}
}

func TestKeywordRetrieverEmptyQuery(t *testing.T) {
	retriever := NewKeywordRetriever(&fakeSearcher{})
	chunks, err := retriever.Retrieve(context.Background(), uuid.New(), "a an the", 4)
	if err != nil {
		t.Fatalf("retrieve: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("stopword-only query should return nothing, got %v", chunks)
	}
}
