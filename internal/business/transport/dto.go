package transport

import (
	"time"

	"github.com/google/uuid"
)

// DayHours is one day's opening window.
type DayHours struct {
	Open  string `json:"open" validate:"required,max=16"`
	Close string `json:"close" validate:"required,max=16"`
}

// RegisterBusinessRequest is the request body for registering a business.
type RegisterBusinessRequest struct {
	Name         string              `json:"name" validate:"required,min=2,max=200"`
	Email        string              `json:"email" validate:"required,email"`
	Phone        string              `json:"phone,omitempty" validate:"max=32"`
	Description  string              `json:"description,omitempty" validate:"max=5000"`
	Address      string              `json:"address,omitempty" validate:"max=500"`
	Services     []string            `json:"services,omitempty" validate:"max=100,dive,max=200"`
	WorkingHours map[string]DayHours `json:"workingHours,omitempty" validate:"omitempty,dive"`
	ContactEmail string              `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone string              `json:"contactPhone,omitempty" validate:"max=32"`
}

// UpdateBusinessRequest is the request body for updating a business profile.
type UpdateBusinessRequest struct {
	Name         *string              `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	Phone        *string              `json:"phone,omitempty" validate:"omitempty,max=32"`
	Description  *string              `json:"description,omitempty" validate:"omitempty,max=5000"`
	Address      *string              `json:"address,omitempty" validate:"omitempty,max=500"`
	Services     *[]string            `json:"services,omitempty" validate:"omitempty,max=100,dive,max=200"`
	WorkingHours *map[string]DayHours `json:"workingHours,omitempty" validate:"omitempty,dive"`
	ContactEmail *string              `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone *string              `json:"contactPhone,omitempty" validate:"omitempty,max=32"`
}

// BusinessResponse is the response body for a business profile.
type BusinessResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	Description  string              `json:"description,omitempty"`
	Address      string              `json:"address,omitempty"`
	Services     []string            `json:"services,omitempty"`
	WorkingHours map[string]DayHours `json:"workingHours,omitempty"`
	ContactEmail string              `json:"contactEmail,omitempty"`
	ContactPhone string              `json:"contactPhone,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// DocumentResponse is the response body for an uploaded document.
type DocumentResponse struct {
	ID          uuid.UUID `json:"id"`
	BusinessID  uuid.UUID `json:"businessId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	SizeBytes   int64     `json:"sizeBytes"`
	ChunkCount  int       `json:"chunkCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UploadDocumentResponse is returned after a successful document ingestion.
type UploadDocumentResponse struct {
	Document DocumentResponse `json:"document"`
	Message  string           `json:"message"`
}
