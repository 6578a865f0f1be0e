package service

import (
	"fmt"
	"sort"
	"strings"

	biztransport "bizgenie_backend/internal/business/transport"
	"bizgenie_backend/internal/rag"
)

// BusinessContext is the business profile data fed into prompts and used
// as the fallback destination for tool calls.
type BusinessContext struct {
	Name         string
	Description  string
	Address      string
	Services     []string
	WorkingHours map[string]biztransport.DayHours
	ContactEmail string
	ContactPhone string
}

const toolInstructions = `You can trigger actions by replying with JSON of the form:
{"answer": "<your reply to the customer>", "call_tool": {"name": "<tool>", "params": {...}}}

Available tools:
- send_email, send_email_confirmation, send_email_update, send_email_cancellation, send_email_reminder, send_email_followup (params: to, subject, body)
- send_whatsapp_message, send_whatsapp_confirmation, send_whatsapp_update, send_whatsapp_cancellation, send_whatsapp_followup (params: to, message)
- create_event, update_event, cancel_event (params: title, date, time, attendee_email, description, location)

Only call a tool when the customer clearly asks for it. When no action is
needed, reply with plain text instead of JSON.`

// BuildSystemPrompt assembles the assistant instructions from the business
// profile and the retrieved document chunks.
func BuildSystemPrompt(biz BusinessContext, chunks []rag.Chunk) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are the customer support assistant for %s.\n", biz.Name)
	b.WriteString("Answer briefly and helpfully, using only the business information below.\n")
	b.WriteString("If the information does not cover the question, say so and offer to pass the question on.\n\n")

	b.WriteString("Business profile:\n")
	b.WriteString(MetadataSummary(biz))
	b.WriteString("\n")

	if len(chunks) > 0 {
		b.WriteString("\nRelevant excerpts from the business's documents:\n")
		for i, chunk := range chunks {
			fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, chunk.Source, chunk.Content)
		}
	}

	b.WriteString("\n")
	b.WriteString(toolInstructions)

	return b.String()
}

// MetadataSummary renders the business profile as plain text. It doubles as
// the reply when the language model is unreachable.
func MetadataSummary(biz BusinessContext) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Name: %s\n", biz.Name)
	if biz.Description != "" {
		fmt.Fprintf(&b, "About: %s\n", biz.Description)
	}
	if biz.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", biz.Address)
	}
	if len(biz.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(biz.Services, ", "))
	}
	if len(biz.WorkingHours) > 0 {
		fmt.Fprintf(&b, "Opening hours: %s\n", formatWorkingHours(biz.WorkingHours))
	}
	if biz.ContactEmail != "" {
		fmt.Fprintf(&b, "Contact email: %s\n", biz.ContactEmail)
	}
	if biz.ContactPhone != "" {
		fmt.Fprintf(&b, "Contact phone: %s\n", biz.ContactPhone)
	}

	return b.String()
}

var weekdayOrder = map[string]int{
	"monday": 0, "tuesday": 1, "wednesday": 2, "thursday": 3,
	"friday": 4, "saturday": 5, "sunday": 6,
}

func formatWorkingHours(hours map[string]biztransport.DayHours) string {
	days := make([]string, 0, len(hours))
	for day := range hours {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		oi, iok := weekdayOrder[strings.ToLower(days[i])]
		oj, jok := weekdayOrder[strings.ToLower(days[j])]
		if iok && jok {
			return oi < oj
		}
		if iok != jok {
			return iok
		}
		return days[i] < days[j]
	})

	parts := make([]string, 0, len(days))
	for _, day := range days {
		h := hours[day]
		parts = append(parts, fmt.Sprintf("%s %s-%s", day, h.Open, h.Close))
	}
	return strings.Join(parts, "; ")
}
