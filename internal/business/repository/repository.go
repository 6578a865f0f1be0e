package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizgenie_backend/internal/business/transport"
	"bizgenie_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Business represents the business database model. Working hours are stored
// as jsonb keyed by weekday, one open/close window per day.
type Business struct {
	ID           uuid.UUID                     `db:"id"`
	Name         string                        `db:"name"`
	Email        string                        `db:"email"`
	Phone        string                        `db:"phone"`
	Description  string                        `db:"description"`
	Address      string                        `db:"address"`
	Services     []string                      `db:"services"`
	WorkingHours map[string]transport.DayHours `db:"working_hours"`
	ContactEmail string                        `db:"contact_email"`
	ContactPhone string                        `db:"contact_phone"`
	CreatedAt    time.Time                     `db:"created_at"`
	UpdatedAt    time.Time                     `db:"updated_at"`
}

// Document represents the uploaded document database model. StoragePath is
// the on-disk location of the original file, empty when the write failed.
type Document struct {
	ID          uuid.UUID `db:"id"`
	BusinessID  uuid.UUID `db:"business_id"`
	FileName    string    `db:"file_name"`
	ContentType string    `db:"content_type"`
	SizeBytes   int64     `db:"size_bytes"`
	StoragePath string    `db:"storage_path"`
	ChunkCount  int       `db:"chunk_count"`
	CreatedAt   time.Time `db:"created_at"`
}

const businessNotFoundMsg = "business not found"

// Repository provides database operations for businesses and their documents.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new business repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new business. Returns a conflict error when the email
// is already registered.
func (r *Repository) Create(ctx context.Context, biz *Business) error {
	query := `
		INSERT INTO businesses (
			id, name, email, phone, description, address, services,
			working_hours, contact_email, contact_phone, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.pool.Exec(ctx, query,
		biz.ID, biz.Name, biz.Email, biz.Phone, biz.Description, biz.Address,
		biz.Services, biz.WorkingHours, biz.ContactEmail, biz.ContactPhone,
		biz.CreatedAt, biz.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.Conflict("a business with this email already exists")
		}
		return fmt.Errorf("failed to create business: %w", err)
	}

	return nil
}

// GetByID retrieves a business by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a business by its registered email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Business, error) {
	return r.getOne(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (r *Repository) getOne(ctx context.Context, where string, arg interface{}) (*Business, error) {
	var biz Business
	query := `
		SELECT id, name, email, phone, description, address, services,
			working_hours, contact_email, contact_phone, created_at, updated_at
		FROM businesses ` + where

	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&biz.ID, &biz.Name, &biz.Email, &biz.Phone, &biz.Description, &biz.Address,
		&biz.Services, &biz.WorkingHours, &biz.ContactEmail, &biz.ContactPhone,
		&biz.CreatedAt, &biz.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(businessNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get business: %w", err)
	}

	return &biz, nil
}

// Update persists profile changes.
func (r *Repository) Update(ctx context.Context, biz *Business) error {
	query := `
		UPDATE businesses SET
			name = $2,
			phone = $3,
			description = $4,
			address = $5,
			services = $6,
			working_hours = $7,
			contact_email = $8,
			contact_phone = $9,
			updated_at = $10
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		biz.ID, biz.Name, biz.Phone, biz.Description, biz.Address,
		biz.Services, biz.WorkingHours, biz.ContactEmail, biz.ContactPhone,
		biz.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update business: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(businessNotFoundMsg)
	}

	return nil
}

// CreateDocument inserts a document record.
func (r *Repository) CreateDocument(ctx context.Context, doc *Document) error {
	query := `
		INSERT INTO documents (id, business_id, file_name, content_type, size_bytes, storage_path, chunk_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		doc.ID, doc.BusinessID, doc.FileName, doc.ContentType, doc.SizeBytes, doc.StoragePath, doc.ChunkCount, doc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// UpdateDocumentChunkCount records how many chunks ingestion produced.
func (r *Repository) UpdateDocumentChunkCount(ctx context.Context, id uuid.UUID, chunkCount int) error {
	if _, err := r.pool.Exec(ctx,
		`UPDATE documents SET chunk_count = $2 WHERE id = $1`, id, chunkCount,
	); err != nil {
		return fmt.Errorf("failed to update document chunk count: %w", err)
	}
	return nil
}

// ListDocuments returns all documents of a business, newest first.
func (r *Repository) ListDocuments(ctx context.Context, businessID uuid.UUID) ([]Document, error) {
	query := `
		SELECT id, business_id, file_name, content_type, size_bytes, storage_path, chunk_count, created_at
		FROM documents WHERE business_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(
			&doc.ID, &doc.BusinessID, &doc.FileName, &doc.ContentType, &doc.SizeBytes, &doc.StoragePath, &doc.ChunkCount, &doc.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}
