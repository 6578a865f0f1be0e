package service

import (
	"fmt"
	"regexp"
	"time"
)

var (
	dateRe = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	timeRe = regexp.MustCompile(`\b(\d{1,2}:\d{2})\b`)
)

// ExtractDate returns the first ISO date (YYYY-MM-DD) found in the message.
func ExtractDate(message string) (string, bool) {
	match := dateRe.FindString(message)
	return match, match != ""
}

// ExtractTime returns the first HH:MM time found in the message.
func ExtractTime(message string) (string, bool) {
	match := timeRe.FindString(message)
	return match, match != ""
}

// ParseStart combines a date and time string into a timestamp.
func ParseStart(date, clock string) (time.Time, error) {
	start, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date or time: %w", err)
	}
	return start, nil
}
