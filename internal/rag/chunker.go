package rag

import "strings"

// SplitText breaks document text into chunks of roughly chunkSize characters,
// preferring paragraph boundaries and falling back to sentence boundaries so
// a chunk stays coherent for embedding.
func SplitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		chunkSize = 1200
	}

	cleaned := normalizeWhitespace(text)
	if cleaned == "" {
		return nil
	}
	if len(cleaned) <= chunkSize {
		return []string{cleaned}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			chunks = append(chunks, part)
		}
		current.Reset()
	}

	for _, paragraph := range strings.Split(cleaned, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}

		if current.Len() > 0 && current.Len()+len(paragraph)+2 > chunkSize {
			flush()
		}

		if len(paragraph) > chunkSize {
			flush()
			for _, piece := range splitLong(paragraph, chunkSize) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(paragraph)
	}
	flush()

	return chunks
}

// splitLong cuts an oversized paragraph at sentence ends where possible.
func splitLong(paragraph string, chunkSize int) []string {
	var pieces []string
	remaining := paragraph

	for len(remaining) > chunkSize {
		cut := chunkSize
		if idx := strings.LastIndexAny(remaining[:chunkSize], ".!?"); idx > chunkSize/2 {
			cut = idx + 1
		} else if idx := strings.LastIndex(remaining[:chunkSize], " "); idx > 0 {
			cut = idx
		}
		pieces = append(pieces, strings.TrimSpace(remaining[:cut]))
		remaining = strings.TrimSpace(remaining[cut:])
	}
	if remaining != "" {
		pieces = append(pieces, remaining)
	}

	return pieces
}

func normalizeWhitespace(text string) string {
	replaced := strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(replaced, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
