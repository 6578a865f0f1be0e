package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bizgenie_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead represents the lead database model.
type Lead struct {
	ID             uuid.UUID `db:"id"`
	BusinessID     uuid.UUID `db:"business_id"`
	ConversationID string    `db:"conversation_id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	Source         string    `db:"source"`
	FirstMessage   string    `db:"first_message"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository provides database operations for leads.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new lead.
func (r *Repository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, business_id, conversation_id, name, email, phone, source, first_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		lead.ID, lead.BusinessID, lead.ConversationID, lead.Name, lead.Email,
		lead.Phone, lead.Source, lead.FirstMessage, lead.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create lead: %w", err)
	}

	return nil
}

// GetByID retrieves a lead scoped to a business.
func (r *Repository) GetByID(ctx context.Context, id, businessID uuid.UUID) (*Lead, error) {
	query := `
		SELECT id, business_id, conversation_id, name, email, phone, source, first_message, created_at
		FROM leads WHERE id = $1 AND business_id = $2`

	var lead Lead
	err := r.pool.QueryRow(ctx, query, id, businessID).Scan(
		&lead.ID, &lead.BusinessID, &lead.ConversationID, &lead.Name, &lead.Email,
		&lead.Phone, &lead.Source, &lead.FirstMessage, &lead.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("lead not found")
		}
		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}

// ListByBusiness returns a business's leads, newest first.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]Lead, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, business_id, conversation_id, name, email, phone, source, first_message, created_at
		FROM leads WHERE business_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.BusinessID, &lead.ConversationID, &lead.Name, &lead.Email,
			&lead.Phone, &lead.Source, &lead.FirstMessage, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan lead: %w", err)
		}
		leads = append(leads, lead)
	}

	return leads, rows.Err()
}
