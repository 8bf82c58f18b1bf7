package utils

import "strings"

// SplitText splits a long string into chunks of approximately 'chunkSize'
// runes with 'overlap' runes of shared context at the boundaries. Chunk
// ends prefer a nearby whitespace so words are not cut in half; the window
// still advances by chunkSize-overlap from the nominal position, so no text
// is lost.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	// The boundary walk-back never exceeds the effective overlap, so the
	// next chunk's start always lies inside the previous chunk.
	window := chunkSize - step
	if window > 40 {
		window = 40
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		} else {
			end = breakNear(runes, end, i, window)
		}

		chunks = append(chunks, string(runes[i:end]))

		if i+chunkSize >= totalLen {
			break
		}
	}

	return chunks
}

// breakNear walks back from pos looking for whitespace within the window,
// so a chunk ends on a word boundary when one is close. Falls back to pos
// when the window contains none (a single long word).
func breakNear(runes []rune, pos, floor, window int) int {
	limit := pos - window
	if limit < floor+1 {
		limit = floor + 1
	}
	for i := pos; i > limit; i-- {
		if isSpace(runes[i-1]) {
			return i
		}
	}
	return pos
}

func isSpace(r rune) bool {
	return strings.ContainsRune(" \t\n\r", r)
}

// CountWords reports the number of whitespace-separated words, used for
// document stats.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
