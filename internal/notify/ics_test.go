package notify

import (
	"strings"
	"testing"
	"time"
)

func TestBuildICSContainsRequiredProperties(t *testing.T) {
	start := time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC)
	ev := Event{
		ID:       "evt-123",
		Summary:  "Consultation",
		Location: "Main office",
		Start:    start,
		End:      start.Add(time.Hour),
		Attendee: "customer@example.com",
	}

	ics := string(BuildICS(ev, ICSMethodRequest))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"METHOD:REQUEST",
		"UID:evt-123",
		"DTSTART:20250612T143000Z",
		"DTEND:20250612T153000Z",
		"SUMMARY:Consultation",
		"ATTENDEE;RSVP=TRUE:mailto:customer@example.com",
		"STATUS:CONFIRMED",
		"END:VCALENDAR",
	} {
		if !strings.Contains(ics, want) {
			t.Errorf("ICS missing %q:\n%s", want, ics)
		}
	}

	if !strings.Contains(ics, "\r\n") {
		t.Error("ICS must use CRLF line endings")
	}
}

func TestBuildICSCancelSetsStatus(t *testing.T) {
	ev := Event{
		ID:      "evt-9",
		Summary: "Checkup",
		Start:   time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
	}

	ics := string(BuildICS(ev, ICSMethodCancel))

	if !strings.Contains(ics, "METHOD:CANCEL") {
		t.Error("expected METHOD:CANCEL")
	}
	if !strings.Contains(ics, "STATUS:CANCELLED") {
		t.Error("expected STATUS:CANCELLED")
	}
}

func TestBuildICSEscapesText(t *testing.T) {
	ev := Event{
		ID:      "evt-esc",
		Summary: "Cut; color, and\nstyle",
		Start:   time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC),
	}

	ics := string(BuildICS(ev, ICSMethodRequest))

	if !strings.Contains(ics, `Cut\; color\, and\nstyle`) {
		t.Errorf("summary not escaped:\n%s", ics)
	}
}

func TestBuildICSDefaultsEndAfterStart(t *testing.T) {
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	ev := Event{ID: "evt-1", Summary: "Visit", Start: start}

	ics := string(BuildICS(ev, ICSMethodRequest))

	if !strings.Contains(ics, "DTEND:20250304T110000Z") {
		t.Errorf("expected one-hour default end:\n%s", ics)
	}
}
