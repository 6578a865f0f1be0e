package notify

import (
	"context"
	"fmt"
	"strings"

	"bizgenie_backend/platform/config"

	"github.com/google/uuid"
)

// CalendarSender creates, updates, and cancels calendar events by emailing
// iCalendar invites to the attendee.
type CalendarSender interface {
	CreateEvent(ctx context.Context, ev Event) Result
	UpdateEvent(ctx context.Context, ev Event) Result
	CancelEvent(ctx context.Context, ev Event) Result
}

// InviteSender implements CalendarSender on top of an EmailSender.
type InviteSender struct {
	cfg   config.CalendarConfig
	email EmailSender
}

// NewInviteSender creates a calendar invite sender.
func NewInviteSender(cfg config.CalendarConfig, email EmailSender) *InviteSender {
	return &InviteSender{cfg: cfg, email: email}
}

// CreateEvent emails a new invite for the event.
func (s *InviteSender) CreateEvent(ctx context.Context, ev Event) Result {
	return s.send(ctx, ev, ICSMethodRequest, "Invitation: ")
}

// UpdateEvent emails an updated invite. Calendar clients match on the UID.
func (s *InviteSender) UpdateEvent(ctx context.Context, ev Event) Result {
	return s.send(ctx, ev, ICSMethodRequest, "Updated invitation: ")
}

// CancelEvent emails a cancellation for the event.
func (s *InviteSender) CancelEvent(ctx context.Context, ev Event) Result {
	return s.send(ctx, ev, ICSMethodCancel, "Cancelled: ")
}

func (s *InviteSender) send(ctx context.Context, ev Event, method, subjectPrefix string) Result {
	if !s.cfg.IsCalendarEnabled() {
		return Failed("calendar integration is disabled")
	}

	recipient := strings.TrimSpace(ev.Attendee)
	if recipient == "" {
		recipient = s.cfg.GetCalendarSenderEmail()
	}
	if recipient == "" {
		return Failed("missing attendee email address")
	}

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Organizer == "" {
		ev.Organizer = s.cfg.GetCalendarSenderEmail()
	}
	if !ev.End.After(ev.Start) {
		ev.End = ev.Start.Add(s.cfg.GetCalendarEventDuration())
	}

	body := fmt.Sprintf("%s\n\nWhen: %s\n", ev.Summary, FormatEventTime(ev.Start))
	if ev.Location != "" {
		body += "Where: " + ev.Location + "\n"
	}
	if ev.Description != "" {
		body += "\n" + ev.Description + "\n"
	}

	result := s.email.Send(ctx, EmailMessage{
		To:      recipient,
		Subject: subjectPrefix + ev.Summary,
		Body:    body,
		Attachments: []Attachment{
			{
				FileName: "invite.ics",
				MIMEType: "text/calendar",
				Content:  BuildICS(ev, method),
			},
		},
	})
	if !result.Success {
		return result
	}

	return Ok("calendar invite sent").WithDetail("to", recipient).WithDetail("event_id", ev.ID)
}
