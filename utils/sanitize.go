package utils

import "github.com/microcosm-cc/bluemonday"

// Todo text, event descriptions and notes are plain text; strip markup entirely.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user-supplied text before it is stored.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
