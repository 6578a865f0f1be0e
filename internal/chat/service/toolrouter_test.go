package service

import (
	"context"
	"testing"
	"time"

	"bizgenie_backend/internal/notify"
)

func TestParseReplyPlainText(t *testing.T) {
	answer, call := ParseReply("We are open from 9 to 5 on weekdays.")
	if answer != "We are open from 9 to 5 on weekdays." {
		t.Errorf("unexpected answer %q", answer)
	}
	if call != nil {
		t.Error("plain text must not produce a tool call")
	}
}

func TestParseReplyWithToolCall(t *testing.T) {
	raw := `{"answer": "I've sent the confirmation.", "call_tool": {"name": "send_email_confirmation", "params": {"to": "jo@example.com", "subject": "Confirmed"}}}`

	answer, call := ParseReply(raw)
	if answer != "I've sent the confirmation." {
		t.Errorf("unexpected answer %q", answer)
	}
	if call == nil || call.Name != "send_email_confirmation" {
		t.Fatalf("expected tool call, got %+v", call)
	}
	if call.Params["to"] != "jo@example.com" {
		t.Errorf("unexpected params %+v", call.Params)
	}
}

func TestParseReplyMalformedJSONIsPlainText(t *testing.T) {
	raw := `{"answer": "truncated`

	answer, call := ParseReply(raw)
	if answer != raw {
		t.Errorf("malformed JSON should be returned verbatim, got %q", answer)
	}
	if call != nil {
		t.Error("malformed JSON must never trigger a tool call")
	}
}

func TestParseReplyStripsCodeFence(t *testing.T) {
	raw := "```json\n{\"answer\": \"Done.\", \"call_tool\": {\"name\": \"send_whatsapp_message\", \"params\": {\"to\": \"+15551234567\", \"message\": \"hi\"}}}\n```"

	answer, call := ParseReply(raw)
	if answer != "Done." {
		t.Errorf("unexpected answer %q", answer)
	}
	if call == nil || call.Name != "send_whatsapp_message" {
		t.Fatalf("expected tool call, got %+v", call)
	}
}

func TestParseReplyMissingAnswerIsPlainText(t *testing.T) {
	raw := `{"call_tool": {"name": "send_email", "params": {}}}`

	answer, call := ParseReply(raw)
	if answer != raw {
		t.Errorf("got %q", answer)
	}
	if call != nil {
		t.Error("reply without an answer must not trigger a tool call")
	}
}

type routerDispatchConfig struct{}

func (routerDispatchConfig) GetDispatchMode() string           { return "sync" }
func (routerDispatchConfig) GetDispatchQueueSize() int         { return 4 }
func (routerDispatchConfig) GetDispatchTimeout() time.Duration { return time.Second }

type recordingEmail struct {
	messages []notify.EmailMessage
}

func (f *recordingEmail) Send(_ context.Context, msg notify.EmailMessage) notify.Result {
	f.messages = append(f.messages, msg)
	return notify.Ok("sent")
}

type recordingWhatsApp struct {
	to, body []string
}

func (f *recordingWhatsApp) Send(_ context.Context, to, body string) notify.Result {
	f.to = append(f.to, to)
	f.body = append(f.body, body)
	return notify.Ok("sent")
}

type recordingCalendar struct {
	created, updated, cancelled []notify.Event
}

func (f *recordingCalendar) CreateEvent(_ context.Context, ev notify.Event) notify.Result {
	f.created = append(f.created, ev)
	return notify.Ok("sent")
}

func (f *recordingCalendar) UpdateEvent(_ context.Context, ev notify.Event) notify.Result {
	f.updated = append(f.updated, ev)
	return notify.Ok("sent")
}

func (f *recordingCalendar) CancelEvent(_ context.Context, ev notify.Event) notify.Result {
	f.cancelled = append(f.cancelled, ev)
	return notify.Ok("sent")
}

func newTestRouter() (*ToolRouter, *recordingEmail, *recordingWhatsApp, *recordingCalendar) {
	email := &recordingEmail{}
	wa := &recordingWhatsApp{}
	cal := &recordingCalendar{}
	dispatcher := notify.NewDispatcher(routerDispatchConfig{}, nil)
	return NewToolRouter(email, wa, cal, dispatcher), email, wa, cal
}

func TestExecuteEmailFallsBackToBusinessContact(t *testing.T) {
	router, email, _, _ := newTestRouter()
	biz := BusinessContext{Name: "Glow Salon", ContactEmail: "owner@glow.example"}

	action := router.Execute(context.Background(), &ToolCall{
		Name:   "send_email",
		Params: map[string]any{"body": "New customer question"},
	}, biz)

	if action == nil {
		t.Fatal("expected an action")
	}
	if action.Tool != "email" || action.To != "owner@glow.example" {
		t.Errorf("unexpected action %+v", action)
	}
	if len(email.messages) != 1 || email.messages[0].To != "owner@glow.example" {
		t.Fatalf("unexpected messages %+v", email.messages)
	}
	if email.messages[0].Subject != "Message from Glow Salon" {
		t.Errorf("unexpected subject %q", email.messages[0].Subject)
	}
}

func TestExecuteSkipsWhenNoDestination(t *testing.T) {
	router, email, wa, _ := newTestRouter()
	biz := BusinessContext{Name: "Glow Salon"}

	if action := router.Execute(context.Background(), &ToolCall{Name: "send_email", Params: map[string]any{}}, biz); action != nil {
		t.Errorf("expected nil action, got %+v", action)
	}
	if action := router.Execute(context.Background(), &ToolCall{Name: "send_whatsapp_message", Params: map[string]any{"message": "hi"}}, biz); action != nil {
		t.Errorf("expected nil action, got %+v", action)
	}
	if len(email.messages) != 0 || len(wa.to) != 0 {
		t.Error("skipped calls must not send anything")
	}
}

func TestExecuteWhatsApp(t *testing.T) {
	router, _, wa, _ := newTestRouter()
	biz := BusinessContext{Name: "Glow Salon", ContactPhone: "+15551234567"}

	action := router.Execute(context.Background(), &ToolCall{
		Name:   "send_whatsapp_confirmation",
		Params: map[string]any{"message": "See you tomorrow"},
	}, biz)

	if action == nil || action.Tool != "whatsapp" || action.Action != "send_whatsapp_confirmation" {
		t.Fatalf("unexpected action %+v", action)
	}
	if len(wa.to) != 1 || wa.to[0] != "+15551234567" || wa.body[0] != "See you tomorrow" {
		t.Errorf("unexpected send %v %v", wa.to, wa.body)
	}
}

func TestExecuteCreateEvent(t *testing.T) {
	router, _, _, cal := newTestRouter()
	biz := BusinessContext{Name: "Glow Salon", ContactEmail: "owner@glow.example"}

	action := router.Execute(context.Background(), &ToolCall{
		Name: "create_event",
		Params: map[string]any{
			"date":           "2026-09-15",
			"time":           "14:30",
			"attendee_email": "jo@example.com",
		},
	}, biz)

	if action == nil || action.Tool != "calendar" || action.To != "jo@example.com" {
		t.Fatalf("unexpected action %+v", action)
	}
	if len(cal.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(cal.created))
	}

	ev := cal.created[0]
	want := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	if !ev.Start.Equal(want) {
		t.Errorf("start = %v, want %v", ev.Start, want)
	}
	if ev.Summary != "Appointment with Glow Salon" {
		t.Errorf("unexpected summary %q", ev.Summary)
	}
}

func TestExecuteCancelEvent(t *testing.T) {
	router, _, _, cal := newTestRouter()
	biz := BusinessContext{ContactEmail: "owner@glow.example"}

	action := router.Execute(context.Background(), &ToolCall{
		Name:   "cancel_event",
		Params: map[string]any{"start": "2026-09-15T14:30:00Z", "title": "Haircut"},
	}, biz)

	if action == nil || action.Action != "cancel_event" {
		t.Fatalf("unexpected action %+v", action)
	}
	if len(cal.cancelled) != 1 || cal.cancelled[0].Summary != "Haircut" {
		t.Errorf("unexpected events %+v", cal.cancelled)
	}
}

func TestExecuteEventWithoutStartIsSkipped(t *testing.T) {
	router, _, _, cal := newTestRouter()
	biz := BusinessContext{ContactEmail: "owner@glow.example"}

	action := router.Execute(context.Background(), &ToolCall{
		Name:   "create_event",
		Params: map[string]any{"title": "Haircut"},
	}, biz)

	if action != nil {
		t.Errorf("expected nil action, got %+v", action)
	}
	if len(cal.created) != 0 {
		t.Error("skipped event must not be sent")
	}
}

func TestExecuteUnknownToolIsIgnored(t *testing.T) {
	router, _, _, _ := newTestRouter()

	action := router.Execute(context.Background(), &ToolCall{
		Name:   "launch_rocket",
		Params: map[string]any{"to": "moon"},
	}, BusinessContext{ContactEmail: "owner@glow.example"})

	if action != nil {
		t.Errorf("expected nil action, got %+v", action)
	}
}

func TestExecuteRejectsNamesOutsideActionSets(t *testing.T) {
	router, email, wa, cal := newTestRouter()
	biz := BusinessContext{ContactEmail: "owner@glow.example", ContactPhone: "+15551234567"}

	for _, name := range []string{
		"send_email_blast",
		"send_emails",
		"send_whatsapp",
		"send_whatsapp_broadcast",
		"delete_event",
		"create_events",
	} {
		action := router.Execute(context.Background(), &ToolCall{
			Name:   name,
			Params: map[string]any{"to": "jo@example.com", "date": "2026-09-15", "time": "14:30"},
		}, biz)
		if action != nil {
			t.Errorf("%s: expected nil action, got %+v", name, action)
		}
	}

	if len(email.messages) != 0 || len(wa.to) != 0 || len(cal.created) != 0 {
		t.Error("near-miss names must not dispatch anything")
	}
}
