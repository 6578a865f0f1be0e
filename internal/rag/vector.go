package rag

import (
	"context"
	"fmt"

	"bizgenie_backend/platform/qdrant"

	"github.com/google/uuid"
)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher is the Qdrant surface the vector retriever needs.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, limit int, filter qdrant.Filter) ([]qdrant.SearchResult, error)
}

// VectorRetriever performs semantic search over Qdrant, scoped per business
// through a payload filter.
type VectorRetriever struct {
	embedder Embedder
	store    VectorSearcher
}

// NewVectorRetriever creates a vector retriever.
func NewVectorRetriever(embedder Embedder, store VectorSearcher) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, store: store}
}

// Retrieve embeds the query and searches the business's points.
func (r *VectorRetriever) Retrieve(ctx context.Context, businessID uuid.UUID, query string, topK int) ([]Chunk, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.store.Search(ctx, vector, topK, qdrant.Filter{
		"business_id": businessID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	chunks := make([]Chunk, 0, len(results))
	for _, result := range results {
		chunk := Chunk{Score: result.Score}
		if id, ok := result.ID.(string); ok {
			if parsed, err := uuid.Parse(id); err == nil {
				chunk.ID = parsed
			}
		}
		if content, ok := result.Payload["content"].(string); ok {
			chunk.Content = content
		}
		if source, ok := result.Payload["source"].(string); ok {
			chunk.Source = source
		}
		if docID, ok := result.Payload["document_id"].(string); ok {
			if parsed, err := uuid.Parse(docID); err == nil {
				chunk.DocumentID = parsed
			}
		}
		if chunk.Content == "" {
			continue
		}
		chunks = append(chunks, chunk)
	}

	return chunks, nil
}
