package utils

import "strings"

// SplitText splits a long string into chunks of approximately chunkSize
// characters with an overlap to preserve context at boundaries. Chunks prefer
// to end on whitespace so words are not cut in half.
func SplitText(text string, chunkSize int, overlap int) []string {
	if len(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		} else {
			// back up to the nearest whitespace, but never lose more
			// than a quarter of the chunk
			chunk := runes[i:end]
			if idx := lastSpace(chunk); idx > chunkSize*3/4 {
				end = i + idx
			}
		}

		chunks = append(chunks, strings.TrimSpace(string(runes[i:end])))

		if end == totalLen {
			break
		}
	}

	return chunks
}

func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' || runes[i] == '\n' || runes[i] == '\t' {
			return i
		}
	}
	return -1
}
