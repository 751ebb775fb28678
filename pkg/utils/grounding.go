package utils

import "strings"

// VerifyGrounding checks that a clause reference produced by the model
// actually occurs in the source document, so hallucinated provisions can be
// flagged before they reach the user. Case-insensitive substring match; a
// cross-encoder would be the full-scale upgrade here.
func VerifyGrounding(rawText string, clauseReference string) bool {
	if clauseReference == "" {
		return false
	}
	return strings.Contains(strings.ToLower(rawText), strings.ToLower(clauseReference))
}
