package service

import (
	"strings"
	"testing"

	biztransport "bizgenie_backend/internal/business/transport"
	"bizgenie_backend/internal/rag"
)

func TestMetadataSummaryRendersOpenCloseHours(t *testing.T) {
	biz := BusinessContext{
		Name: "Glow Salon",
		WorkingHours: map[string]biztransport.DayHours{
			"tuesday": {Open: "10:00", Close: "18:00"},
			"monday":  {Open: "09:00", Close: "17:00"},
		},
	}

	summary := MetadataSummary(biz)
	if !strings.Contains(summary, "monday 09:00-17:00; tuesday 10:00-18:00") {
		t.Errorf("hours not rendered in weekday order, got %q", summary)
	}
}

func TestBuildSystemPromptNumbersExcerpts(t *testing.T) {
	biz := BusinessContext{Name: "Glow Salon"}
	chunks := []rag.Chunk{
		{Source: "pricelist.pdf", Content: "Balayage from 120"},
		{Source: "faq.pdf", Content: "Open Saturdays"},
	}

	prompt := BuildSystemPrompt(biz, chunks)
	if !strings.Contains(prompt, "[1] (pricelist.pdf) Balayage from 120") {
		t.Errorf("first excerpt missing: %q", prompt)
	}
	if !strings.Contains(prompt, "[2] (faq.pdf) Open Saturdays") {
		t.Errorf("second excerpt missing: %q", prompt)
	}
	if !strings.Contains(prompt, "call_tool") {
		t.Error("tool instructions missing from prompt")
	}
}
