package service

import (
	"context"
	"fmt"
	"time"

	"bizgenie_backend/internal/appointments/repository"
	"bizgenie_backend/internal/appointments/transport"
	"bizgenie_backend/internal/events"
	"bizgenie_backend/internal/notify"
	"bizgenie_backend/internal/scheduler"
	"bizgenie_backend/platform/apperr"
	"bizgenie_backend/platform/logger"
	"bizgenie_backend/platform/phone"
	"bizgenie_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, appt *repository.Appointment) error
	GetByID(ctx context.Context, id, businessID uuid.UUID) (*repository.Appointment, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID, status string, limit int) ([]repository.Appointment, error)
	UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) error
	HasOverlap(ctx context.Context, businessID uuid.UUID, start, end time.Time) (bool, error)
}

// Service implements appointment booking, listing, and status changes.
type Service struct {
	repo       Store
	reminders  scheduler.ReminderScheduler
	dispatcher *notify.Dispatcher
	email      notify.EmailSender
	whatsapp   notify.WhatsAppSender
	calendar   notify.CalendarSender
	bus        events.Bus
	leadTime   time.Duration
	log        *logger.Logger
}

// New creates a new appointments service.
func New(
	repo Store,
	reminders scheduler.ReminderScheduler,
	dispatcher *notify.Dispatcher,
	email notify.EmailSender,
	whatsapp notify.WhatsAppSender,
	calendar notify.CalendarSender,
	bus events.Bus,
	leadTime time.Duration,
	log *logger.Logger,
) *Service {
	if leadTime <= 0 {
		leadTime = 24 * time.Hour
	}
	return &Service{
		repo:       repo,
		reminders:  reminders,
		dispatcher: dispatcher,
		email:      email,
		whatsapp:   whatsapp,
		calendar:   calendar,
		bus:        bus,
		leadTime:   leadTime,
		log:        log,
	}
}

// Create books a new appointment, sends confirmations, and schedules a
// reminder ahead of the start time.
func (s *Service) Create(ctx context.Context, businessID uuid.UUID, req transport.CreateAppointmentRequest) (*transport.AppointmentResponse, error) {
	if req.StartTime.Before(time.Now()) {
		return nil, apperr.Validation("appointment start time must be in the future")
	}

	end := req.EndTime
	if !end.After(req.StartTime) {
		end = req.StartTime.Add(time.Hour)
	}

	overlap, err := s.repo.HasOverlap(ctx, businessID, req.StartTime, end)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.Conflict("the requested time slot is already taken")
	}

	source := req.Source
	if source == "" {
		source = "api"
	}

	now := time.Now()
	appt := &repository.Appointment{
		ID:            uuid.New(),
		BusinessID:    businessID,
		CustomerName:  sanitize.Text(req.CustomerName),
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: phone.NormalizeE164(req.CustomerPhone),
		Service:       sanitize.Text(req.Service),
		Notes:         sanitize.Text(req.Notes),
		StartTime:     req.StartTime,
		EndTime:       end,
		Status:        repository.StatusScheduled,
		Source:        source,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.AppointmentBooked{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		CustomerName:  appt.CustomerName,
		CustomerEmail: appt.CustomerEmail,
		CustomerPhone: appt.CustomerPhone,
		Service:       appt.Service,
		StartTime:     appt.StartTime,
		Source:        appt.Source,
	})

	s.sendConfirmations(ctx, appt)
	s.scheduleReminder(ctx, appt)

	return toResponse(appt), nil
}

// Get returns one appointment scoped to a business.
func (s *Service) Get(ctx context.Context, id, businessID uuid.UUID) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, businessID)
	if err != nil {
		return nil, err
	}
	return toResponse(appt), nil
}

// List returns a business's appointments, optionally filtered by status.
func (s *Service) List(ctx context.Context, businessID uuid.UUID, status string, limit int) ([]transport.AppointmentResponse, error) {
	if status != "" && !validStatus(status) {
		return nil, apperr.Validation(fmt.Sprintf("unknown status %q", status))
	}

	appts, err := s.repo.ListByBusiness(ctx, businessID, status, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]transport.AppointmentResponse, len(appts))
	for i := range appts {
		responses[i] = *toResponse(&appts[i])
	}
	return responses, nil
}

// UpdateStatus transitions the appointment and notifies the customer when
// it is cancelled.
func (s *Service) UpdateStatus(ctx context.Context, id, businessID uuid.UUID, status string) (*transport.AppointmentResponse, error) {
	appt, err := s.repo.GetByID(ctx, id, businessID)
	if err != nil {
		return nil, err
	}

	if appt.Status == status {
		return toResponse(appt), nil
	}
	if appt.Status == repository.StatusCancelled {
		return nil, apperr.Conflict("a cancelled appointment cannot change status")
	}

	oldStatus := appt.Status
	if err := s.repo.UpdateStatus(ctx, id, businessID, status); err != nil {
		return nil, err
	}
	appt.Status = status
	appt.UpdatedAt = time.Now()

	s.bus.Publish(ctx, events.AppointmentStatusChanged{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		BusinessID:    appt.BusinessID,
		CustomerEmail: appt.CustomerEmail,
		CustomerPhone: appt.CustomerPhone,
		OldStatus:     oldStatus,
		NewStatus:     status,
		StartTime:     appt.StartTime,
	})

	if status == repository.StatusCancelled {
		s.sendCancellations(ctx, appt)
	}

	return toResponse(appt), nil
}

func (s *Service) sendConfirmations(ctx context.Context, appt *repository.Appointment) {
	summary := appointmentSummary(appt)
	body := fmt.Sprintf(
		"Hi %s, your appointment is booked for %s.",
		appt.CustomerName, notify.FormatEventTime(appt.StartTime),
	)

	if appt.CustomerEmail != "" {
		email := appt.CustomerEmail
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "email",
			Action: "send_email_confirmation",
			Target: email,
			Run: func(jobCtx context.Context) notify.Result {
				return s.email.Send(jobCtx, notify.EmailMessage{
					To:      email,
					Subject: "Appointment confirmed: " + summary,
					Body:    body,
				})
			},
		})

		ev := notify.Event{
			ID:          appt.ID.String(),
			Summary:     summary,
			Description: appt.Notes,
			Start:       appt.StartTime,
			End:         appt.EndTime,
			Attendee:    email,
		}
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "calendar",
			Action: "create_event",
			Target: email,
			Run: func(jobCtx context.Context) notify.Result {
				return s.calendar.CreateEvent(jobCtx, ev)
			},
		})
	}

	if appt.CustomerPhone != "" {
		to := appt.CustomerPhone
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "whatsapp",
			Action: "send_whatsapp_confirmation",
			Target: to,
			Run: func(jobCtx context.Context) notify.Result {
				return s.whatsapp.Send(jobCtx, to, body)
			},
		})
	}
}

func (s *Service) sendCancellations(ctx context.Context, appt *repository.Appointment) {
	summary := appointmentSummary(appt)
	body := fmt.Sprintf(
		"Hi %s, your appointment on %s has been cancelled.",
		appt.CustomerName, notify.FormatEventTime(appt.StartTime),
	)

	if appt.CustomerEmail != "" {
		email := appt.CustomerEmail
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "email",
			Action: "send_email_cancellation",
			Target: email,
			Run: func(jobCtx context.Context) notify.Result {
				return s.email.Send(jobCtx, notify.EmailMessage{
					To:      email,
					Subject: "Appointment cancelled: " + summary,
					Body:    body,
				})
			},
		})

		ev := notify.Event{
			ID:       appt.ID.String(),
			Summary:  summary,
			Start:    appt.StartTime,
			End:      appt.EndTime,
			Attendee: email,
		}
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "calendar",
			Action: "cancel_event",
			Target: email,
			Run: func(jobCtx context.Context) notify.Result {
				return s.calendar.CancelEvent(jobCtx, ev)
			},
		})
	}

	if appt.CustomerPhone != "" {
		to := appt.CustomerPhone
		s.dispatcher.Dispatch(ctx, notify.Job{
			Tool:   "whatsapp",
			Action: "send_whatsapp_cancellation",
			Target: to,
			Run: func(jobCtx context.Context) notify.Result {
				return s.whatsapp.Send(jobCtx, to, body)
			},
		})
	}
}

// scheduleReminder is best effort; a booked appointment stands even when
// the queue is down.
func (s *Service) scheduleReminder(ctx context.Context, appt *repository.Appointment) {
	if s.reminders == nil {
		return
	}

	runAt := appt.StartTime.Add(-s.leadTime)
	if runAt.Before(time.Now()) {
		return
	}

	err := s.reminders.ScheduleAppointmentReminder(ctx, scheduler.AppointmentReminderPayload{
		AppointmentID: appt.ID.String(),
		BusinessID:    appt.BusinessID.String(),
	}, runAt)
	if err != nil {
		s.log.UpstreamError("scheduler", "schedule_reminder", err)
	}
}

func appointmentSummary(appt *repository.Appointment) string {
	if appt.Service != "" {
		return appt.Service
	}
	return "Appointment"
}

func validStatus(status string) bool {
	switch status {
	case repository.StatusScheduled, repository.StatusConfirmed, repository.StatusCancelled, repository.StatusCompleted:
		return true
	}
	return false
}

func toResponse(appt *repository.Appointment) *transport.AppointmentResponse {
	return &transport.AppointmentResponse{
		ID:            appt.ID,
		BusinessID:    appt.BusinessID,
		CustomerName:  appt.CustomerName,
		CustomerEmail: appt.CustomerEmail,
		CustomerPhone: appt.CustomerPhone,
		Service:       appt.Service,
		Notes:         appt.Notes,
		StartTime:     appt.StartTime,
		EndTime:       appt.EndTime,
		Status:        appt.Status,
		Source:        appt.Source,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
}
