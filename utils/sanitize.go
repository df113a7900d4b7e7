package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizer = bluemonday.UGCPolicy()
	stripper  = bluemonday.StrictPolicy()
)

// Sanitize cleans rich-text HTML from the editor to prevent XSS attacks.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}

// IsBlankHTML reports whether input has no visible text once tags are stripped,
// e.g. "<p>&nbsp;</p>" as submitted by an empty editor.
func IsBlankHTML(input string) bool {
	text := html.UnescapeString(stripper.Sanitize(input))
	return strings.TrimSpace(text) == ""
}
