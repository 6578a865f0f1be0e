package service

import (
	"testing"
	"time"
)

func TestExtractDate(t *testing.T) {
	date, ok := ExtractDate("book me in on 2026-09-15 please")
	if !ok || date != "2026-09-15" {
		t.Errorf("got %q ok=%v, want 2026-09-15", date, ok)
	}

	if _, ok := ExtractDate("book me in next tuesday"); ok {
		t.Error("relative dates should not match")
	}
}

func TestExtractTime(t *testing.T) {
	clock, ok := ExtractTime("around 14:30 works for me")
	if !ok || clock != "14:30" {
		t.Errorf("got %q ok=%v, want 14:30", clock, ok)
	}

	clock, ok = ExtractTime("how about 9:15?")
	if !ok || clock != "9:15" {
		t.Errorf("got %q ok=%v, want 9:15", clock, ok)
	}

	if _, ok := ExtractTime("in the afternoon"); ok {
		t.Error("vague times should not match")
	}
}

func TestParseStart(t *testing.T) {
	start, err := ParseStart("2026-09-15", "14:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("got %v, want %v", start, want)
	}

	if _, err := ParseStart("2026-99-99", "14:30"); err == nil {
		t.Error("expected error for invalid date")
	}
}
