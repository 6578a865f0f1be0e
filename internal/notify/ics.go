package notify

import (
	"fmt"
	"strings"
	"time"
)

// Event describes a calendar event for invite generation.
type Event struct {
	ID          string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	Attendee    string
	Organizer   string
}

// ICS methods per RFC 5546.
const (
	ICSMethodRequest = "REQUEST"
	ICSMethodCancel  = "CANCEL"
)

const icsTimeLayout = "20060102T150405Z"

// BuildICS renders the event as an iCalendar (RFC 5545) document suitable
// for attaching to an email as invite.ics.
func BuildICS(ev Event, method string) []byte {
	var b strings.Builder

	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:-//BizGenie//Assistant//EN")
	writeICSLine(&b, "METHOD:"+method)
	writeICSLine(&b, "BEGIN:VEVENT")
	writeICSLine(&b, "UID:"+escapeICS(ev.ID))
	writeICSLine(&b, "DTSTAMP:"+time.Now().UTC().Format(icsTimeLayout))
	writeICSLine(&b, "DTSTART:"+ev.Start.UTC().Format(icsTimeLayout))
	writeICSLine(&b, "DTEND:"+eventEnd(ev).UTC().Format(icsTimeLayout))
	writeICSLine(&b, "SUMMARY:"+escapeICS(ev.Summary))
	if ev.Description != "" {
		writeICSLine(&b, "DESCRIPTION:"+escapeICS(ev.Description))
	}
	if ev.Location != "" {
		writeICSLine(&b, "LOCATION:"+escapeICS(ev.Location))
	}
	if ev.Organizer != "" {
		writeICSLine(&b, "ORGANIZER:mailto:"+ev.Organizer)
	}
	if ev.Attendee != "" {
		writeICSLine(&b, "ATTENDEE;RSVP=TRUE:mailto:"+ev.Attendee)
	}
	if method == ICSMethodCancel {
		writeICSLine(&b, "STATUS:CANCELLED")
	} else {
		writeICSLine(&b, "STATUS:CONFIRMED")
	}
	writeICSLine(&b, "END:VEVENT")
	writeICSLine(&b, "END:VCALENDAR")

	return []byte(b.String())
}

func eventEnd(ev Event) time.Time {
	if ev.End.After(ev.Start) {
		return ev.End
	}
	return ev.Start.Add(time.Hour)
}

// writeICSLine appends a content line with CRLF, folding at 75 octets
// as required by RFC 5545.
func writeICSLine(b *strings.Builder, line string) {
	const maxLen = 75

	for len(line) > maxLen {
		b.WriteString(line[:maxLen])
		b.WriteString("\r\n ")
		line = line[maxLen:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

func escapeICS(s string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(s)
}

// FormatEventTime renders an event start for message bodies.
func FormatEventTime(t time.Time) string {
	return fmt.Sprintf("%s at %s", t.Format("Monday, 2 January 2006"), t.Format("15:04"))
}
