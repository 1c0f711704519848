package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugHyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify creates a URL-friendly slug from the given string.
// Example: "Summer Shoes 2026" -> "summer-shoes-2026"
func Slugify(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = slugInvalidChars.ReplaceAllString(result, "")
	result = strings.ReplaceAll(result, " ", "-")
	result = slugHyphenRuns.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
