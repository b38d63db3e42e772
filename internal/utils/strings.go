package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeString trims surrounding whitespace
func NormalizeString(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims the address; case is kept so the guest sees what they typed
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// IsValidEmail accepts local@domain.tld with no whitespace
func IsValidEmail(email string) bool {
	normalized := NormalizeEmail(email)
	if normalized == "" || strings.IndexFunc(normalized, unicode.IsSpace) != -1 {
		return false
	}

	local, domain, ok := strings.Cut(normalized, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}

	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

// PhoneDigits returns only the digits of a phone number, keeping a leading +
func PhoneDigits(phone string) string {
	cleaned := strings.TrimSpace(phone)

	var result strings.Builder
	for i, r := range cleaned {
		if i == 0 && r == '+' {
			result.WriteRune(r)
		} else if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// Clip shortens s to at most max runes
func Clip(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
