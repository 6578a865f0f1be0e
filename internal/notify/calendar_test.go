package notify

import (
	"context"
	"strings"
	"testing"
	"time"
)

type fakeEmailSender struct {
	sent   []EmailMessage
	result Result
}

func (f *fakeEmailSender) Send(ctx context.Context, msg EmailMessage) Result {
	f.sent = append(f.sent, msg)
	return f.result
}

type testCalendarConfig struct {
	enabled bool
	sender  string
}

func (c testCalendarConfig) GetCalendarSenderEmail() string          { return c.sender }
func (c testCalendarConfig) GetCalendarEventDuration() time.Duration { return time.Hour }
func (c testCalendarConfig) IsCalendarEnabled() bool                 { return c.enabled }

func TestInviteSenderDisabledFailsSoft(t *testing.T) {
	email := &fakeEmailSender{result: Ok("sent")}
	sender := NewInviteSender(testCalendarConfig{enabled: false}, email)

	result := sender.CreateEvent(context.Background(), Event{Summary: "Visit"})
	if result.Success {
		t.Fatal("disabled calendar must not report success")
	}
	if len(email.sent) != 0 {
		t.Error("no email should be sent when calendar is disabled")
	}
}

func TestInviteSenderCreateAttachesICS(t *testing.T) {
	email := &fakeEmailSender{result: Ok("sent")}
	sender := NewInviteSender(testCalendarConfig{enabled: true, sender: "owner@example.com"}, email)

	start := time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC)
	result := sender.CreateEvent(context.Background(), Event{
		Summary:  "Consultation",
		Start:    start,
		Attendee: "customer@example.com",
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if len(email.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(email.sent))
	}

	msg := email.sent[0]
	if msg.To != "customer@example.com" {
		t.Errorf("invite should go to the attendee, got %q", msg.To)
	}
	if !strings.HasPrefix(msg.Subject, "Invitation: ") {
		t.Errorf("unexpected subject %q", msg.Subject)
	}
	if len(msg.Attachments) != 1 || msg.Attachments[0].FileName != "invite.ics" {
		t.Fatalf("expected invite.ics attachment, got %+v", msg.Attachments)
	}

	ics := string(msg.Attachments[0].Content)
	if !strings.Contains(ics, "METHOD:REQUEST") {
		t.Error("create should use METHOD:REQUEST")
	}
	if !strings.Contains(ics, "ORGANIZER:mailto:owner@example.com") {
		t.Error("organizer should default to the configured sender")
	}
}

func TestInviteSenderCancelUsesCancelMethod(t *testing.T) {
	email := &fakeEmailSender{result: Ok("sent")}
	sender := NewInviteSender(testCalendarConfig{enabled: true, sender: "owner@example.com"}, email)

	result := sender.CancelEvent(context.Background(), Event{
		ID:       "evt-7",
		Summary:  "Consultation",
		Start:    time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC),
		Attendee: "customer@example.com",
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	ics := string(email.sent[0].Attachments[0].Content)
	if !strings.Contains(ics, "METHOD:CANCEL") {
		t.Error("cancel should use METHOD:CANCEL")
	}
}

func TestInviteSenderFallsBackToOwnerEmail(t *testing.T) {
	email := &fakeEmailSender{result: Ok("sent")}
	sender := NewInviteSender(testCalendarConfig{enabled: true, sender: "owner@example.com"}, email)

	result := sender.CreateEvent(context.Background(), Event{
		Summary: "Walk-in",
		Start:   time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC),
	})

	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}
	if email.sent[0].To != "owner@example.com" {
		t.Errorf("invite without attendee should go to the owner, got %q", email.sent[0].To)
	}
}

func TestInviteSenderPropagatesEmailFailure(t *testing.T) {
	email := &fakeEmailSender{result: Failed("smtp send: boom")}
	sender := NewInviteSender(testCalendarConfig{enabled: true, sender: "owner@example.com"}, email)

	result := sender.CreateEvent(context.Background(), Event{
		Summary:  "Visit",
		Start:    time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC),
		Attendee: "customer@example.com",
	})

	if result.Success {
		t.Fatal("email failure must propagate")
	}
}
