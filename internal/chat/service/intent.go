package service

import "strings"

// Intent buckets an incoming message so the pipeline can pick between the
// booking fast path, tool routing, and document retrieval.
type Intent string

const (
	IntentCreateAppointment     Intent = "create_appointment"
	IntentCancelAppointment     Intent = "cancel_appointment"
	IntentRescheduleAppointment Intent = "reschedule_appointment"
	IntentAppointmentStatus     Intent = "appointment_status"
	IntentAppointmentReminder   Intent = "appointment_reminder"
	IntentFollowUp              Intent = "follow_up"
	IntentGeneralTools          Intent = "general_tools"
	IntentFAQ                   Intent = "faq"
	IntentRAG                   Intent = "rag"
)

var appointmentWords = []string{"appointment", "booking", "reservation", "meeting", "consult"}

var bookingWords = []string{"book", "schedule", "reserve", "appointment", "make an appointment"}

// ClassifyIntent maps a message to an intent with ordered keyword checks.
// Cancellation and rescheduling are checked before creation so that
// "cancel my appointment" does not match the booking keywords first.
func ClassifyIntent(message string) Intent {
	text := strings.ToLower(message)

	if mentionsAppointment(text) {
		switch {
		case containsAny(text, "cancel", "call off", "can't make"):
			return IntentCancelAppointment
		case containsAny(text, "reschedule", "move my", "change my", "another time", "different time"):
			return IntentRescheduleAppointment
		case containsAny(text, "status", "confirmed", "still on", "is my"):
			return IntentAppointmentStatus
		case containsAny(text, "remind", "reminder"):
			return IntentAppointmentReminder
		}
	}
	if containsAny(text, bookingWords...) {
		return IntentCreateAppointment
	}
	if containsAny(text, "follow up", "follow-up", "get back to me", "haven't heard") {
		return IntentFollowUp
	}
	if containsAny(text, "send an email", "send email", "email me", "send a whatsapp", "send whatsapp", "whatsapp me", "text me", "send me an invite", "calendar invite") {
		return IntentGeneralTools
	}
	if isShortQuestion(text) {
		return IntentFAQ
	}

	return IntentRAG
}

// IsBookingIntent reports whether the intent should try the booking fast path.
func IsBookingIntent(intent Intent) bool {
	return intent == IntentCreateAppointment || intent == IntentRescheduleAppointment
}

func mentionsAppointment(text string) bool {
	return containsAny(text, appointmentWords...)
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// Short questions are usually simple facts (opening hours, prices) that the
// business metadata or a single chunk can answer.
func isShortQuestion(text string) bool {
	return len(strings.Fields(text)) <= 5
}
