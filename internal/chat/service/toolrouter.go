package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bizgenie_backend/internal/chat/transport"
	"bizgenie_backend/internal/notify"
)

// ToolCall is the structured action a model reply may request.
type ToolCall struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type modelReply struct {
	Answer   string    `json:"answer"`
	CallTool *ToolCall `json:"call_tool"`
}

// ParseReply extracts the answer text and optional tool call from raw model
// output. Anything that is not the expected JSON envelope is treated as a
// plain-text answer with no tool call, so a malformed reply can never
// trigger a side effect.
func ParseReply(raw string) (string, *ToolCall) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "{") {
		return strings.TrimSpace(raw), nil
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(text), &reply); err != nil || reply.Answer == "" {
		return strings.TrimSpace(raw), nil
	}
	if reply.CallTool != nil && reply.CallTool.Name == "" {
		reply.CallTool = nil
	}

	return reply.Answer, reply.CallTool
}

// ToolRouter maps tool calls onto the notification senders. Destinations
// missing from the params fall back to the business's contact details;
// calls still missing a destination after that merge are skipped.
type ToolRouter struct {
	email      notify.EmailSender
	whatsapp   notify.WhatsAppSender
	calendar   notify.CalendarSender
	dispatcher *notify.Dispatcher
}

// NewToolRouter creates a tool router.
func NewToolRouter(email notify.EmailSender, whatsapp notify.WhatsAppSender, calendar notify.CalendarSender, dispatcher *notify.Dispatcher) *ToolRouter {
	return &ToolRouter{email: email, whatsapp: whatsapp, calendar: calendar, dispatcher: dispatcher}
}

// Execute dispatches the tool call and returns the recorded action.
// Unknown tools and skipped calls return nil.
func (r *ToolRouter) Execute(ctx context.Context, call *ToolCall, biz BusinessContext) *transport.ToolAction {
	if call == nil {
		return nil
	}

	switch {
	case emailActions[call.Name]:
		return r.sendEmail(ctx, call, biz)
	case whatsappActions[call.Name]:
		return r.sendWhatsApp(ctx, call, biz)
	case calendarActions[call.Name]:
		return r.calendarEvent(ctx, call, biz)
	}

	return nil
}

// The action sets are closed. A name outside them is ignored, even when it
// resembles a known action.
var emailActions = map[string]bool{
	"send_email":              true,
	"send_email_confirmation": true,
	"send_email_update":       true,
	"send_email_cancellation": true,
	"send_email_reminder":     true,
	"send_email_followup":     true,
}

var whatsappActions = map[string]bool{
	"send_whatsapp_message":      true,
	"send_whatsapp_confirmation": true,
	"send_whatsapp_update":       true,
	"send_whatsapp_cancellation": true,
	"send_whatsapp_followup":     true,
}

var calendarActions = map[string]bool{
	"create_event": true,
	"update_event": true,
	"cancel_event": true,
}

func (r *ToolRouter) sendEmail(ctx context.Context, call *ToolCall, biz BusinessContext) *transport.ToolAction {
	to := stringParam(call.Params, "to", "email", "recipient")
	if to == "" {
		to = biz.ContactEmail
	}
	if to == "" {
		return nil
	}

	subject := stringParam(call.Params, "subject")
	if subject == "" {
		subject = "Message from " + biz.Name
	}
	body := stringParam(call.Params, "body", "message", "text")

	r.dispatcher.Dispatch(ctx, notify.Job{
		Tool:   "email",
		Action: call.Name,
		Target: to,
		Run: func(jobCtx context.Context) notify.Result {
			return r.email.Send(jobCtx, notify.EmailMessage{To: to, Subject: subject, Body: body})
		},
	})

	return &transport.ToolAction{Tool: "email", Action: call.Name, To: to}
}

func (r *ToolRouter) sendWhatsApp(ctx context.Context, call *ToolCall, biz BusinessContext) *transport.ToolAction {
	to := stringParam(call.Params, "to", "phone", "number")
	if to == "" {
		to = biz.ContactPhone
	}
	if to == "" {
		return nil
	}

	body := stringParam(call.Params, "message", "body", "text")

	r.dispatcher.Dispatch(ctx, notify.Job{
		Tool:   "whatsapp",
		Action: call.Name,
		Target: to,
		Run: func(jobCtx context.Context) notify.Result {
			return r.whatsapp.Send(jobCtx, to, body)
		},
	})

	return &transport.ToolAction{Tool: "whatsapp", Action: call.Name, To: to}
}

func (r *ToolRouter) calendarEvent(ctx context.Context, call *ToolCall, biz BusinessContext) *transport.ToolAction {
	attendee := stringParam(call.Params, "attendee_email", "attendee", "email", "to")
	if attendee == "" {
		attendee = biz.ContactEmail
	}
	if attendee == "" {
		return nil
	}

	start, ok := startParam(call.Params)
	if !ok {
		return nil
	}

	summary := stringParam(call.Params, "title", "summary")
	if summary == "" {
		summary = "Appointment with " + biz.Name
	}

	ev := notify.Event{
		ID:          stringParam(call.Params, "event_id", "id"),
		Summary:     summary,
		Description: stringParam(call.Params, "description"),
		Location:    stringParam(call.Params, "location"),
		Start:       start,
		Attendee:    attendee,
	}

	var send func(context.Context, notify.Event) notify.Result
	switch call.Name {
	case "create_event":
		send = r.calendar.CreateEvent
	case "update_event":
		send = r.calendar.UpdateEvent
	case "cancel_event":
		send = r.calendar.CancelEvent
	default:
		return nil
	}

	r.dispatcher.Dispatch(ctx, notify.Job{
		Tool:   "calendar",
		Action: call.Name,
		Target: attendee,
		Run: func(jobCtx context.Context) notify.Result {
			return send(jobCtx, ev)
		},
	})

	return &transport.ToolAction{Tool: "calendar", Action: call.Name, To: attendee}
}

func stringParam(params map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := params[key]; ok {
			switch v := value.(type) {
			case string:
				if trimmed := strings.TrimSpace(v); trimmed != "" {
					return trimmed
				}
			case float64:
				return fmt.Sprintf("%v", v)
			}
		}
	}
	return ""
}

// startParam resolves the event start from either an RFC 3339 "start" param
// or separate "date" and "time" params.
func startParam(params map[string]any) (time.Time, bool) {
	if raw := stringParam(params, "start", "start_time", "datetime"); raw != "" {
		if start, err := time.Parse(time.RFC3339, raw); err == nil {
			return start, true
		}
		if start, err := time.Parse("2006-01-02 15:04", raw); err == nil {
			return start, true
		}
	}

	date := stringParam(params, "date")
	clock := stringParam(params, "time")
	if date != "" && clock != "" {
		if start, err := ParseStart(date, clock); err == nil {
			return start, true
		}
	}

	return time.Time{}, false
}
