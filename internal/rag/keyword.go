package rag

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// chunkSearcher is the repository surface the keyword retriever needs.
type chunkSearcher interface {
	SearchByTerms(ctx context.Context, businessID uuid.UUID, terms []string, limit int) ([]StoredChunk, error)
}

// KeywordRetriever ranks chunks by query term overlap. It needs no external
// services, so it always works as long as the database is up.
type KeywordRetriever struct {
	repo chunkSearcher
}

// NewKeywordRetriever creates a keyword retriever.
func NewKeywordRetriever(repo chunkSearcher) *KeywordRetriever {
	return &KeywordRetriever{repo: repo}
}

// Retrieve returns up to topK chunks ordered by descending term overlap.
func (r *KeywordRetriever) Retrieve(ctx context.Context, businessID uuid.UUID, query string, topK int) ([]Chunk, error) {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	candidates, err := r.repo.SearchByTerms(ctx, businessID, terms, topK*10)
	if err != nil {
		return nil, err
	}

	scored := make([]Chunk, 0, len(candidates))
	for _, candidate := range candidates {
		score := ScoreOverlap(terms, candidate.Content)
		if score == 0 {
			continue
		}
		scored = append(scored, Chunk{
			ID:         candidate.ID,
			DocumentID: candidate.DocumentID,
			Content:    candidate.Content,
			Score:      score,
		})
	}

	sortByScore(scored)
	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// stopwords excluded from keyword matching.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "can": {}, "do": {}, "for": {}, "from": {}, "have": {},
	"how": {}, "i": {}, "in": {}, "is": {}, "it": {}, "my": {}, "of": {},
	"on": {}, "or": {}, "the": {}, "to": {}, "we": {}, "what": {},
	"when": {}, "where": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

// QueryTerms extracts lowercase search terms from a query, dropping
// stopwords and very short tokens.
func QueryTerms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 3 {
			continue
		}
		if _, skip := stopwords[field]; skip {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}
		terms = append(terms, field)
	}
	return terms
}

// ScoreOverlap returns the fraction of query terms found in the content.
func ScoreOverlap(terms []string, content string) float64 {
	if len(terms) == 0 {
		return 0
	}

	lowered := strings.ToLower(content)
	matched := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

func sortByScore(chunks []Chunk) {
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Score > chunks[j].Score
	})
}
