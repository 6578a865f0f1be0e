package rag

import (
	"strings"
	"testing"
)

func TestSplitTextEmpty(t *testing.T) {
	if chunks := SplitText("   \n\n  ", 1200); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestSplitTextShortReturnsSingleChunk(t *testing.T) {
	chunks := SplitText("Our salon opens at 9am.", 1200)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "Our salon opens at 9am." {
		t.Errorf("unexpected chunk %q", chunks[0])
	}
}

func TestSplitTextKeepsParagraphsTogether(t *testing.T) {
	text := strings.Repeat("Pricing details line.\n", 5) +
		"\n" +
		strings.Repeat("Opening hours line.\n", 5)

	chunks := SplitText(text, 60)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for _, chunk := range chunks {
		if strings.Contains(chunk, "Pricing") && strings.Contains(chunk, "Opening") {
			t.Errorf("paragraphs should not be merged past the chunk size: %q", chunk)
		}
	}
}

func TestSplitTextBreaksOversizedParagraphs(t *testing.T) {
	sentence := "We offer haircuts and coloring for all ages. "
	text := strings.Repeat(sentence, 60)

	chunks := SplitText(text, 500)

	if len(chunks) < 2 {
		t.Fatalf("expected the long paragraph to be split, got %d chunks", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 600 {
			t.Errorf("chunk %d exceeds size bound: %d chars", i, len(chunk))
		}
		if chunk == "" {
			t.Errorf("chunk %d is empty", i)
		}
	}
}

func TestSplitTextCoversAllContent(t *testing.T) {
	text := "First paragraph about services.\n\nSecond paragraph about prices.\n\nThird paragraph about hours."

	chunks := SplitText(text, 40)

	joined := strings.Join(chunks, " ")
	for _, want := range []string{"services", "prices", "hours"} {
		if !strings.Contains(joined, want) {
			t.Errorf("content %q lost during chunking", want)
		}
	}
}
