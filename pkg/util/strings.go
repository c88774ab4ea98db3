package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Combining Diacritical Marks block
var diacritics = runes.Predicate(func(r rune) bool {
	return r >= 0x0300 && r <= 0x036f
})

// StripDiacritics decomposes s (NFD) and drops the combining diacritical marks, so "Évry" becomes "Evry"
func StripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(diacritics))

	result, _, err := transform.String(t, s)
	if err != nil {
		return s
	}

	return result
}

// RemoveWhitespace drops every unicode whitespace rune from s
func RemoveWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// LeadingInt parses the integer at the start of s ("12 min" gives 12), ok is false when there is none
func LeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		negative = s[0] == '-'
		s = s[1:]
	}

	value := 0
	digits := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		value = value*10 + int(r-'0')
		digits++
	}

	if digits == 0 {
		return 0, false
	}
	if negative {
		value = -value
	}

	return value, true
}

func TrimString(s string, length int) string {
	if len(s) <= length {
		return s
	}

	return s[:length]
}
