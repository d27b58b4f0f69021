package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Free text is stored as plain text: any markup a citizen types is stripped.
var strict = bluemonday.StrictPolicy()

func sanitizeText(s string) string {
	// StrictPolicy escapes what it keeps; store the unescaped form and let renderers escape.
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// sanitizeLine is sanitizeText with newlines collapsed, for titles and names.
func sanitizeLine(s string) string {
	return strings.Join(strings.Fields(sanitizeText(s)), " ")
}
