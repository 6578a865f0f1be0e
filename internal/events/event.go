// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"bizgenie_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead is captured from a chat conversation.
type LeadCreated struct {
	BaseEvent
	LeadID         uuid.UUID `json:"leadId"`
	BusinessID     uuid.UUID `json:"businessId"`
	ConversationID string    `json:"conversationId"`
	Name           string    `json:"name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	Source         string    `json:"source"`
	FirstMessage   string    `json:"firstMessage"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// =============================================================================
// Business Domain Events
// =============================================================================

// BusinessRegistered is published when a new business signs up.
type BusinessRegistered struct {
	BaseEvent
	BusinessID uuid.UUID `json:"businessId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
}

func (e BusinessRegistered) EventName() string { return "business.registered" }

// DocumentUploaded is published when a business document finishes ingestion.
type DocumentUploaded struct {
	BaseEvent
	DocumentID uuid.UUID `json:"documentId"`
	BusinessID uuid.UUID `json:"businessId"`
	FileName   string    `json:"fileName"`
	ChunkCount int       `json:"chunkCount"`
}

func (e DocumentUploaded) EventName() string { return "business.document.uploaded" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentBooked is published when an appointment is scheduled.
type AppointmentBooked struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	BusinessID    uuid.UUID `json:"businessId"`
	CustomerName  string    `json:"customerName,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	Service       string    `json:"service,omitempty"`
	StartTime     time.Time `json:"startTime"`
	Source        string    `json:"source"`
}

func (e AppointmentBooked) EventName() string { return "appointments.booked" }

// AppointmentStatusChanged is published when an appointment's status changes
// (e.g. confirmed, cancelled, completed).
type AppointmentStatusChanged struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	BusinessID    uuid.UUID `json:"businessId"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	OldStatus     string    `json:"oldStatus"`
	NewStatus     string    `json:"newStatus"`
	StartTime     time.Time `json:"startTime"`
}

func (e AppointmentStatusChanged) EventName() string { return "appointments.status.changed" }
