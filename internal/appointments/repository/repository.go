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

// Appointment statuses.
const (
	StatusScheduled = "scheduled"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Appointment represents the appointment database model.
type Appointment struct {
	ID            uuid.UUID  `db:"id"`
	BusinessID    uuid.UUID  `db:"business_id"`
	CustomerName  string     `db:"customer_name"`
	CustomerEmail string     `db:"customer_email"`
	CustomerPhone string     `db:"customer_phone"`
	Service       string     `db:"service"`
	Notes         string     `db:"notes"`
	StartTime     time.Time  `db:"start_time"`
	EndTime       time.Time  `db:"end_time"`
	Status        string     `db:"status"`
	Source        string     `db:"source"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const appointmentNotFoundMsg = "appointment not found"

// Repository provides database operations for appointments.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const appointmentColumns = `id, business_id, customer_name, customer_email, customer_phone,
	service, notes, start_time, end_time, status, source, created_at, updated_at`

// Create inserts a new appointment.
func (r *Repository) Create(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.pool.Exec(ctx, query,
		appt.ID, appt.BusinessID, appt.CustomerName, appt.CustomerEmail, appt.CustomerPhone,
		appt.Service, appt.Notes, appt.StartTime, appt.EndTime, appt.Status, appt.Source,
		appt.CreatedAt, appt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	return nil
}

// GetByID retrieves an appointment scoped to a business.
func (r *Repository) GetByID(ctx context.Context, id, businessID uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND business_id = $2`

	var appt Appointment
	err := r.pool.QueryRow(ctx, query, id, businessID).Scan(
		&appt.ID, &appt.BusinessID, &appt.CustomerName, &appt.CustomerEmail, &appt.CustomerPhone,
		&appt.Service, &appt.Notes, &appt.StartTime, &appt.EndTime, &appt.Status, &appt.Source,
		&appt.CreatedAt, &appt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(appointmentNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	return &appt, nil
}

// ListByBusiness returns a business's appointments ordered by start time.
// An empty status lists all of them.
func (r *Repository) ListByBusiness(ctx context.Context, businessID uuid.UUID, status string, limit int) ([]Appointment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE business_id = $1`
	args := []interface{}{businessID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY start_time ASC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var appt Appointment
		if err := rows.Scan(
			&appt.ID, &appt.BusinessID, &appt.CustomerName, &appt.CustomerEmail, &appt.CustomerPhone,
			&appt.Service, &appt.Notes, &appt.StartTime, &appt.EndTime, &appt.Status, &appt.Source,
			&appt.CreatedAt, &appt.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan appointment: %w", err)
		}
		appts = append(appts, appt)
	}

	return appts, rows.Err()
}

// UpdateStatus transitions the appointment's status.
func (r *Repository) UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE appointments SET status = $3, updated_at = now() WHERE id = $1 AND business_id = $2`,
		id, businessID, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(appointmentNotFoundMsg)
	}

	return nil
}

// HasOverlap reports whether another active appointment overlaps the window.
func (r *Repository) HasOverlap(ctx context.Context, businessID uuid.UUID, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE business_id = $1
			AND status IN ($2, $3)
			AND start_time < $5
			AND end_time > $4
		)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, businessID, StatusScheduled, StatusConfirmed, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check appointment overlap: %w", err)
	}

	return exists, nil
}
