package rag

import (
	"context"
	"time"

	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/qdrant"

	"github.com/google/uuid"
)

// VectorWriter is the Qdrant surface the ingestor needs.
type VectorWriter interface {
	Upsert(ctx context.Context, points []qdrant.Point) error
	DeleteByFilter(ctx context.Context, filter qdrant.Filter) error
}

// chunkWriter is the repository surface the ingestor needs.
type chunkWriter interface {
	InsertChunks(ctx context.Context, chunks []StoredChunk) error
	DeleteByDocument(ctx context.Context, documentID uuid.UUID) error
}

// Ingestor chunks document text, persists the chunks, and indexes them in
// the vector store when one is configured.
type Ingestor struct {
	repo      chunkWriter
	embedder  Embedder
	store     VectorWriter
	chunkSize int
	log       *logger.Logger
}

// NewIngestor creates an ingestor. embedder and store may be nil when the
// vector stack is not configured; chunks are then keyword-searchable only.
func NewIngestor(repo chunkWriter, embedder Embedder, store VectorWriter, chunkSize int, log *logger.Logger) *Ingestor {
	return &Ingestor{
		repo:      repo,
		embedder:  embedder,
		store:     store,
		chunkSize: chunkSize,
		log:       log,
	}
}

// IngestDocument splits text, stores chunks in Postgres, and upserts
// embeddings best effort. Returns the number of chunks stored.
func (i *Ingestor) IngestDocument(ctx context.Context, businessID, documentID uuid.UUID, source, text string) (int, error) {
	parts := SplitText(text, i.chunkSize)
	if len(parts) == 0 {
		return 0, nil
	}

	now := time.Now()
	chunks := make([]StoredChunk, len(parts))
	for idx, part := range parts {
		chunks[idx] = StoredChunk{
			ID:         uuid.New(),
			DocumentID: documentID,
			BusinessID: businessID,
			Position:   idx,
			Content:    part,
			CreatedAt:  now,
		}
	}

	if err := i.repo.InsertChunks(ctx, chunks); err != nil {
		return 0, err
	}

	i.indexChunks(ctx, businessID, documentID, source, chunks)

	return len(chunks), nil
}

// RemoveDocument deletes a document's chunks from Postgres and the vector store.
func (i *Ingestor) RemoveDocument(ctx context.Context, documentID uuid.UUID) error {
	if err := i.repo.DeleteByDocument(ctx, documentID); err != nil {
		return err
	}

	if i.store != nil {
		if err := i.store.DeleteByFilter(ctx, qdrant.Filter{"document_id": documentID.String()}); err != nil && i.log != nil {
			i.log.UpstreamError("qdrant", "delete_document", err)
		}
	}
	return nil
}

// indexChunks embeds and upserts chunks. Vector indexing failures are
// logged, not returned: keyword search still covers the document.
func (i *Ingestor) indexChunks(ctx context.Context, businessID, documentID uuid.UUID, source string, chunks []StoredChunk) {
	if i.embedder == nil || i.store == nil {
		return
	}

	points := make([]qdrant.Point, 0, len(chunks))
	for _, chunk := range chunks {
		vector, err := i.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			if i.log != nil {
				i.log.UpstreamError("embeddings", "embed_chunk", err)
			}
			return
		}
		points = append(points, qdrant.Point{
			ID:     chunk.ID.String(),
			Vector: vector,
			Payload: map[string]interface{}{
				"business_id": businessID.String(),
				"document_id": documentID.String(),
				"source":      source,
				"content":     chunk.Content,
				"position":    chunk.Position,
			},
		})
	}

	if err := i.store.Upsert(ctx, points); err != nil && i.log != nil {
		i.log.UpstreamError("qdrant", "upsert_chunks", err)
	}
}
