package utils

// TextChunk is a window of a larger document, tagged with the rune offset
// where the window starts in the source text.
type TextChunk struct {
	Text        string
	StartOffset int
}

// SplitText splits a long string into chunks of approximately 'chunkSize' characters.
// It includes an 'overlap' to preserve context at boundaries and records each
// chunk's starting offset so callers can map a chunk back into the document.
// This is a simple character-based splitter; windows may cut mid-sentence.
func SplitText(text string, chunkSize int, overlap int) []TextChunk {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	totalLen := len(runes)

	if totalLen <= chunkSize {
		return []TextChunk{{Text: text, StartOffset: 0}}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // fallback if overlap >= chunkSize
	}

	var chunks []TextChunk
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end > totalLen {
			end = totalLen
		}

		chunks = append(chunks, TextChunk{
			Text:        string(runes[i:end]),
			StartOffset: i,
		})

		if end == totalLen {
			break
		}
	}

	return chunks
}
