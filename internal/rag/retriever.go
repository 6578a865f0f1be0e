// Package rag provides document retrieval for grounding assistant answers.
// Chunks live in Postgres; when the vector stack (embeddings + Qdrant) is
// configured, semantic search is used with a keyword fallback.
package rag

import (
	"context"

	"github.com/google/uuid"
)

// Chunk is one retrieved piece of a business document.
type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	Source     string
	Content    string
	Score      float64
}

// Retriever finds document chunks relevant to a query, scoped to one business.
type Retriever interface {
	Retrieve(ctx context.Context, businessID uuid.UUID, query string, topK int) ([]Chunk, error)
}
