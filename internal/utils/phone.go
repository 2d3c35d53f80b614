package utils

import (
	"regexp"
	"strings"
)

var (
	nonDigits   = regexp.MustCompile(`\D`)
	maskPattern = regexp.MustCompile(`(\+\d{2})(\d{3})(\d{3})(\d{4})`)
)

// NormalizePhone canonicalizes a user-entered phone string into a dialable
// international format. 10 digits get the default country code, 11 digits
// starting with 1 are treated as NANP. No real-world validity checking is done:
// garbage in produces a plausible-looking number and the failure surfaces later
// as a delivery failure.
func NormalizePhone(raw, defaultCountryCode string) string {
	cleaned := nonDigits.ReplaceAllString(raw, "")

	if len(cleaned) == 10 {
		return "+" + defaultCountryCode + cleaned
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "1") {
		return "+" + cleaned
	}
	if !strings.HasPrefix(cleaned, "+") {
		return "+" + cleaned
	}
	return cleaned
}

// MaskPhone renders a display-safe number: country code, three masking
// characters, then the remaining digits. Numbers that don't match the expected
// shape are returned unchanged.
func MaskPhone(phone string) string {
	return maskPattern.ReplaceAllString(phone, "$1***$3$4")
}
