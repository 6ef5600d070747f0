package services

import (
	"regexp"
	"strings"
)

// Normalized Indonesian numbers are the country code followed by 8 to 15
// digits.
var phonePattern = regexp.MustCompile(`^62\d{8,15}$`)

// NormalizePhone rewrites an Indonesian phone number to a bare 62-prefixed
// digit string. Accepted inputs: local format with leading 0, international
// with leading 62 or +62, or bare digits starting with 8. Separators and
// whitespace are stripped first.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "0"):
		return "62" + s[1:]
	case strings.HasPrefix(s, "62"):
		return s
	case strings.HasPrefix(s, "8"):
		return "62" + s
	}
	return s
}

// ValidPhone reports whether phone is an already-normalized Indonesian
// number.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
