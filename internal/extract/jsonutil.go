// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "regexp"

// Patterns for pulling a JSON object out of an oracle response. Models
// wrap JSON in markdown fences and emit trailing commas often enough
// that strict decoding alone loses usable responses.
var (
	jsonBlockPattern     = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	jsonObjectPattern    = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// extractJSON returns the JSON object embedded in an oracle response,
// stripped of markdown fencing and trailing commas. Returns "" when no
// object is present.
func extractJSON(content string) string {
	raw := ""
	if matches := jsonBlockPattern.FindStringSubmatch(content); len(matches) > 1 {
		raw = matches[1]
	} else if match := jsonObjectPattern.FindString(content); match != "" {
		raw = match
	}
	if raw == "" {
		return ""
	}
	return trailingCommaPattern.ReplaceAllString(raw, "$1")
}
