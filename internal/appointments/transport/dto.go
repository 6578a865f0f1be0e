package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	CustomerName  string    `json:"customerName" validate:"required,min=2,max=200"`
	CustomerEmail string    `json:"customerEmail,omitempty" validate:"omitempty,email"`
	CustomerPhone string    `json:"customerPhone,omitempty" validate:"max=32"`
	Service       string    `json:"service,omitempty" validate:"max=200"`
	Notes         string    `json:"notes,omitempty" validate:"max=2000"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime,omitempty"`
	Source        string    `json:"source,omitempty" validate:"omitempty,oneof=chat api"`
}

// UpdateStatusRequest is the request body for an appointment status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=scheduled confirmed cancelled completed"`
}

// AppointmentResponse is the response body for an appointment.
type AppointmentResponse struct {
	ID            uuid.UUID `json:"id"`
	BusinessID    uuid.UUID `json:"businessId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Service       string    `json:"service,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
	Status        string    `json:"status"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
