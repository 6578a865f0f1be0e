package service

import "testing"

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		name    string
		message string
		want    Intent
	}{
		{"booking", "I'd like to book an appointment for a haircut", IntentCreateAppointment},
		{"booking with schedule", "Can you schedule me in next week?", IntentCreateAppointment},
		{"cancel", "I need to cancel my appointment tomorrow", IntentCancelAppointment},
		{"reschedule", "Can we move my appointment to another time?", IntentRescheduleAppointment},
		{"status", "Is my appointment still on?", IntentAppointmentStatus},
		{"reminder", "Please remind me about my appointment", IntentAppointmentReminder},
		{"follow up", "I sent a question last week but haven't heard anything", IntentFollowUp},
		{"general tools", "Could you send an email to my colleague with the price list?", IntentGeneralTools},
		{"short question", "What are your hours?", IntentFAQ},
		{"long question", "I'm comparing providers and want to understand exactly what your premium maintenance package includes", IntentRAG},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyIntent(tc.message); got != tc.want {
				t.Errorf("ClassifyIntent(%q) = %s, want %s", tc.message, got, tc.want)
			}
		})
	}
}

func TestCancelBeatsBookingKeywords(t *testing.T) {
	// "appointment" is also a booking keyword, so ordering matters.
	if got := ClassifyIntent("cancel the appointment I booked"); got != IntentCancelAppointment {
		t.Errorf("got %s, want %s", got, IntentCancelAppointment)
	}
}

func TestIsBookingIntent(t *testing.T) {
	if !IsBookingIntent(IntentCreateAppointment) || !IsBookingIntent(IntentRescheduleAppointment) {
		t.Error("create and reschedule should take the booking fast path")
	}
	if IsBookingIntent(IntentCancelAppointment) {
		t.Error("cancellation should not take the booking fast path")
	}
}
