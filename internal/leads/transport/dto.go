package transport

import (
	"time"

	"github.com/google/uuid"
)

// LeadResponse is the response body for a captured lead.
type LeadResponse struct {
	ID             uuid.UUID `json:"id"`
	BusinessID     uuid.UUID `json:"businessId"`
	ConversationID string    `json:"conversationId"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Source         string    `json:"source"`
	FirstMessage   string    `json:"firstMessage"`
	CreatedAt      time.Time `json:"createdAt"`
}
