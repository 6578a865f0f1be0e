package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// StoredChunk is the document_chunks database model.
type StoredChunk struct {
	ID         uuid.UUID `db:"id"`
	DocumentID uuid.UUID `db:"document_id"`
	BusinessID uuid.UUID `db:"business_id"`
	Position   int       `db:"position"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

// Repository provides database operations for document chunks.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new chunk repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertChunks stores all chunks of one document in a single transaction.
func (r *Repository) InsertChunks(ctx context.Context, chunks []StoredChunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin chunk insert: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO document_chunks (id, document_id, business_id, position, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	for _, chunk := range chunks {
		if _, err := tx.Exec(ctx, query,
			chunk.ID, chunk.DocumentID, chunk.BusinessID, chunk.Position, chunk.Content, chunk.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert chunk: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// SearchByTerms returns chunks of the business containing any of the terms,
// newest documents first. Ranking happens in the keyword retriever.
func (r *Repository) SearchByTerms(ctx context.Context, businessID uuid.UUID, terms []string, limit int) ([]StoredChunk, error) {
	if len(terms) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	patterns := make([]string, len(terms))
	for i, term := range terms {
		patterns[i] = "%" + term + "%"
	}

	query := `
		SELECT id, document_id, business_id, position, content, created_at
		FROM document_chunks
		WHERE business_id = $1 AND content ILIKE ANY($2)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, businessID, patterns, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []StoredChunk
	for rows.Next() {
		var chunk StoredChunk
		if err := rows.Scan(
			&chunk.ID, &chunk.DocumentID, &chunk.BusinessID, &chunk.Position, &chunk.Content, &chunk.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

// GetByID loads a single chunk.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*StoredChunk, error) {
	var chunk StoredChunk
	query := `
		SELECT id, document_id, business_id, position, content, created_at
		FROM document_chunks WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&chunk.ID, &chunk.DocumentID, &chunk.BusinessID, &chunk.Position, &chunk.Content, &chunk.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get chunk: %w", err)
	}

	return &chunk, nil
}

// DeleteByDocument removes all chunks of a document.
func (r *Repository) DeleteByDocument(ctx context.Context, documentID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("failed to delete chunks: %w", err)
	}
	return nil
}
