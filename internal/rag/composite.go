package rag

import (
	"context"

	"bizgenie_backend/platform/logger"

	"github.com/google/uuid"
)

// CompositeRetriever tries the primary (vector) retriever first and falls
// back to the secondary (keyword) one. Retrieval never fails the chat
// pipeline: if both legs error, it degrades to an empty result.
type CompositeRetriever struct {
	primary   Retriever
	secondary Retriever
	log       *logger.Logger
}

// NewCompositeRetriever creates a composite retriever. primary may be nil
// when the vector stack is not configured.
func NewCompositeRetriever(primary, secondary Retriever, log *logger.Logger) *CompositeRetriever {
	return &CompositeRetriever{primary: primary, secondary: secondary, log: log}
}

// Retrieve returns the first non-empty result, degrading to empty on errors.
func (r *CompositeRetriever) Retrieve(ctx context.Context, businessID uuid.UUID, query string, topK int) ([]Chunk, error) {
	if r.primary != nil {
		chunks, err := r.primary.Retrieve(ctx, businessID, query, topK)
		if err == nil && len(chunks) > 0 {
			return chunks, nil
		}
		if err != nil && r.log != nil {
			r.log.UpstreamError("vector_search", "retrieve", err)
		}
	}

	if r.secondary != nil {
		chunks, err := r.secondary.Retrieve(ctx, businessID, query, topK)
		if err == nil {
			return chunks, nil
		}
		if r.log != nil {
			r.log.DatabaseError("keyword_retrieve", err)
		}
	}

	return nil, nil
}
