// Package htmlsanitize strips markup from free-text fields before they are
// stored, so values echoed back to the web client never carry HTML.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every element and attribute; its output is escaped text.
var strict = bluemonday.StrictPolicy()

// PlainText returns s with all tags removed and entities decoded, trimmed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !strings.Contains(s, "<") || !strings.Contains(s, ">")
}
