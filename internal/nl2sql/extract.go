package nl2sql

import (
	"strings"
	"unicode"
)

const fence = "```"

// ExtractSQL strips surrounding whitespace, a leading fence with an optional
// sql tag and a trailing fence. It is best effort and never fails.
func ExtractSQL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, fence)
	trimmed = trimLanguageTag(trimmed)
	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, fence)
	return strings.TrimSpace(trimmed)
}

func trimLanguageTag(value string) string {
	const tag = "sql"
	if len(value) < len(tag) || !strings.EqualFold(value[:len(tag)], tag) {
		return value
	}
	rest := value[len(tag):]
	if rest == "" {
		return ""
	}
	if r := rune(rest[0]); unicode.IsSpace(r) {
		return rest
	}
	return value
}
