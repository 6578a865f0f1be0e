// Package notification subscribes to domain events and notifies business
// owners. Domain modules publish events and never talk to senders directly.
package notification

import (
	"context"
	"fmt"

	"bizgenie_backend/internal/business/repository"
	"bizgenie_backend/internal/events"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/platform/logger"

	"github.com/google/uuid"
)

// OwnerContactReader resolves the owner contact details for a business.
type OwnerContactReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Business, error)
}

// Module handles notification-related event subscriptions.
type Module struct {
	businesses OwnerContactReader
	email      notify.EmailSender
	whatsapp   notify.WhatsAppSender
	log        *logger.Logger
}

// New creates a new notification module.
func New(businesses OwnerContactReader, email notify.EmailSender, whatsapp notify.WhatsAppSender, log *logger.Logger) *Module {
	return &Module{
		businesses: businesses,
		email:      email,
		whatsapp:   whatsapp,
		log:        log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to the domain events this module acts on.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)
	bus.Subscribe(events.DocumentUploaded{}.EventName(), m)
	bus.Subscribe(events.AppointmentBooked{}.EventName(), m)
	bus.Subscribe(events.AppointmentStatusChanged{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	case events.DocumentUploaded:
		return m.handleDocumentUploaded(ctx, e)
	case events.AppointmentBooked:
		return m.handleAppointmentBooked(ctx, e)
	case events.AppointmentStatusChanged:
		return m.handleAppointmentStatusChanged(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	biz, err := m.businesses.GetByID(ctx, e.BusinessID)
	if err != nil {
		return fmt.Errorf("resolve business for lead notification: %w", err)
	}

	contact := e.Email
	if contact == "" {
		contact = e.Phone
	}
	if contact == "" {
		contact = "no contact details"
	}

	body := fmt.Sprintf(
		"A new lead came in through the %s assistant.\n\nContact: %s\nFirst message: %s\n",
		e.Source, contact, e.FirstMessage,
	)

	m.sendOwnerNotification(ctx, biz, "New lead for "+biz.Name, body)
	return nil
}

func (m *Module) handleDocumentUploaded(ctx context.Context, e events.DocumentUploaded) error {
	biz, err := m.businesses.GetByID(ctx, e.BusinessID)
	if err != nil {
		return fmt.Errorf("resolve business for document notification: %w", err)
	}

	body := fmt.Sprintf(
		"Your document %q has been processed into %d searchable sections. The assistant can now answer questions from it.",
		e.FileName, e.ChunkCount,
	)

	m.sendOwnerNotification(ctx, biz, "Document ready: "+e.FileName, body)
	return nil
}

func (m *Module) handleAppointmentBooked(ctx context.Context, e events.AppointmentBooked) error {
	biz, err := m.businesses.GetByID(ctx, e.BusinessID)
	if err != nil {
		return fmt.Errorf("resolve business for appointment notification: %w", err)
	}

	service := e.Service
	if service == "" {
		service = "appointment"
	}

	body := fmt.Sprintf(
		"New booking: %s for %s on %s.",
		service, e.CustomerName, notify.FormatEventTime(e.StartTime),
	)
	if e.CustomerEmail != "" {
		body += "\nCustomer email: " + e.CustomerEmail
	}
	if e.CustomerPhone != "" {
		body += "\nCustomer phone: " + e.CustomerPhone
	}

	m.sendOwnerNotification(ctx, biz, "New booking for "+biz.Name, body)
	return nil
}

// handleAppointmentStatusChanged tells the owner about cancellations.
// Confirmations and completions are routine and stay out of the inbox.
func (m *Module) handleAppointmentStatusChanged(ctx context.Context, e events.AppointmentStatusChanged) error {
	if e.NewStatus != "cancelled" {
		return nil
	}

	biz, err := m.businesses.GetByID(ctx, e.BusinessID)
	if err != nil {
		return fmt.Errorf("resolve business for cancellation notification: %w", err)
	}

	body := fmt.Sprintf(
		"The appointment on %s was cancelled.",
		notify.FormatEventTime(e.StartTime),
	)
	if e.CustomerEmail != "" {
		body += "\nCustomer email: " + e.CustomerEmail
	}

	m.sendOwnerNotification(ctx, biz, "Appointment cancelled", body)
	return nil
}

// sendOwnerNotification delivers over email and WhatsApp where the owner
// has a contact on file. Send failures are logged, not returned, so a
// broken sender does not make the bus retry-log the event as a failure.
func (m *Module) sendOwnerNotification(ctx context.Context, biz *repository.Business, subject, body string) {
	if biz.ContactEmail != "" {
		result := m.email.Send(ctx, notify.EmailMessage{
			To:      biz.ContactEmail,
			Subject: subject,
			Body:    body,
		})
		m.log.ToolDispatch("email", "owner_notification", biz.ContactEmail, result.Success, result.Message)
	}

	if biz.ContactPhone != "" {
		result := m.whatsapp.Send(ctx, biz.ContactPhone, subject+"\n\n"+body)
		m.log.ToolDispatch("whatsapp", "owner_notification", biz.ContactPhone, result.Success, result.Message)
	}
}
