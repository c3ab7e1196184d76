// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

// Length caps for visitor-supplied intake fields.
const (
	MaxNameLength      = 100
	MaxEmailLength     = 150
	MaxSubjectLength   = 200
	MaxMessageLength   = 2000
	MaxNotesLength     = 2000
	MaxUserAgentLength = 512
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}

// ValidateIntakeField checks a required, length-bounded text field after
// trimming. Returns ok plus a message suitable for the API response.
func ValidateIntakeField(name, value string, maxLen int) (bool, string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false, name + " is required"
	}
	if len(trimmed) > maxLen {
		return false, name + " is too long"
	}
	return true, ""
}
