package models

import (
	"strings"
	"unicode"
)

// Normalization policy for person and reference names:
//   - last names are stored upper-cased
//   - first names are stored capitalized (first rune upper, rest lower)
//   - emails are stored lower-cased
//   - all of the above are trimmed
//   - local phone numbers default to the BJ region prefix
//
// Normalization runs before every persistence so uniqueness constraints
// compare canonical forms.

const defaultPhonePrefix = "+229"

// NormalizeLastName trims and upper-cases a last name.
func NormalizeLastName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// NormalizeFirstName trims and capitalizes a first name.
func NormalizeFirstName(s string) string {
	return capitalize(strings.TrimSpace(s))
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizePhone canonicalizes a phone number: separators and spacing are
// stripped, a single leading "+" survives, and local numbers get the default
// region prefix. Uniqueness constraints then compare canonical forms, so
// "+229 97-00-00-01" and "+22997000001" collide.
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" || strings.HasPrefix(out, "+") {
		return out
	}
	return defaultPhonePrefix + out
}

// TitleCaseName trims a reference name (centre, university) and title-cases
// each word.
func TitleCaseName(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
