package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitText(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := SplitText("hello world", 1000, 100)
		assert.Len(t, chunks, 1)
		assert.Equal(t, "hello world", chunks[0].Text)
		assert.Equal(t, 0, chunks[0].StartOffset)
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		chunks := SplitText("", 1000, 100)
		assert.Empty(t, chunks)
	})

	t.Run("windows overlap by the configured amount", func(t *testing.T) {
		text := strings.Repeat("a", 250)
		chunks := SplitText(text, 100, 20)

		assert.True(t, len(chunks) >= 3)
		assert.Equal(t, 0, chunks[0].StartOffset)
		assert.Equal(t, 80, chunks[1].StartOffset)
		assert.Equal(t, 160, chunks[2].StartOffset)
		assert.Len(t, chunks[0].Text, 100)
	})

	t.Run("offsets address the original text", func(t *testing.T) {
		text := "The quick brown fox jumps over the lazy dog. " + strings.Repeat("x", 300)
		chunks := SplitText(text, 120, 30)

		runes := []rune(text)
		for _, c := range chunks {
			reconstructed := string(runes[c.StartOffset : c.StartOffset+len([]rune(c.Text))])
			assert.Equal(t, c.Text, reconstructed)
		}
	})

	t.Run("multibyte runes never split", func(t *testing.T) {
		text := strings.Repeat("héllo wörld ", 40)
		chunks := SplitText(text, 100, 10)
		for _, c := range chunks {
			assert.True(t, len([]rune(c.Text)) <= 100)
		}
	})

	t.Run("zero overlap still advances", func(t *testing.T) {
		text := strings.Repeat("b", 50)
		chunks := SplitText(text, 10, 0)
		assert.Len(t, chunks, 5)
	})
}
