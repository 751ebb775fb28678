package utils

import "strings"

// ExtractJSON pulls the outermost { } block out of a model response.
// Local models tend to wrap JSON in conversational filler ("Here is the
// JSON:") or markdown fences; slicing from the first '{' to the last '}'
// recovers the payload without crashing on the noise. Returns the input
// unchanged when no brace pair is found.
func ExtractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start >= 0 && end > start {
		return content[start : end+1]
	}

	return content
}
