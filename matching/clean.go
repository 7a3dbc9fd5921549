package matching

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// Regex to replace non-alphanumeric characters with a space.
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]+`)

	// Regex to collapse multiple whitespace characters into a single space.
	extraWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// Clean normalizes a display name for similarity comparison: lowercase,
// diacritics removed (e.g. "é" -> "e"), punctuation replaced with spaces,
// and whitespace collapsed and trimmed. Only a-z and 0-9 survive, so a name
// written entirely in another script normalizes to the empty string.
func Clean(s string) string {
	s = strings.ToLower(s)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, _ = transform.String(t, s)

	s = nonAlphanumericRegex.ReplaceAllString(s, " ")
	s = extraWhitespaceRegex.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// Tokens splits a name into its normalized words.
func Tokens(s string) []string {
	return strings.Fields(Clean(s))
}
