package whatsapp

import (
	"regexp"
	"strings"
)

var e164Re = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

// NormalizePhone canonicalizes a raw phone number to E.164. Bare 10-digit
// numbers get the default country code, a common shape for locally collected
// Indian numbers. Returns false when no valid E.164 form can be produced.
func NormalizePhone(raw, defaultCountryCode string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(cleaned, "+"):
		// already explicit, validate below
	case strings.HasPrefix(cleaned, "00"):
		cleaned = "+" + cleaned[2:]
	case len(cleaned) == 10:
		cleaned = defaultCountryCode + cleaned
	case len(cleaned) == 11 && strings.HasPrefix(cleaned, "0"):
		// trunk prefix on a domestic number
		cleaned = defaultCountryCode + cleaned[1:]
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, strings.TrimPrefix(defaultCountryCode, "+")):
		cleaned = "+" + cleaned
	default:
		return "", false
	}

	if !e164Re.MatchString(cleaned) {
		return "", false
	}
	return cleaned, true
}
