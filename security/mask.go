package security

import "strings"

// Field names that must never leave the process in plaintext.
var sensitiveFields = map[string]struct{}{
	"cardNumber":     {},
	"card_number":    {},
	"number":         {},
	"cvv":            {},
	"pin":            {},
	"password":       {},
	"accountNumber":  {},
	"account_number": {},
}

const redacted = "[REDACTED]"

// ContainsSensitive reports whether any top-level or nested key of m is a
// sensitive payment field.
func ContainsSensitive(m map[string]any) bool {
	for key, value := range m {
		if _, ok := sensitiveFields[key]; ok {
			return true
		}
		if nested, ok := value.(map[string]any); ok && ContainsSensitive(nested) {
			return true
		}
	}
	return false
}

// MaskSensitive returns a copy of m with sensitive fields replaced. Card
// and account numbers keep their last four digits, everything else is
// fully redacted. The input map is left untouched.
func MaskSensitive(m map[string]any) (masked map[string]any) {
	masked = make(map[string]any, len(m))
	for key, value := range m {
		if nested, ok := value.(map[string]any); ok {
			masked[key] = MaskSensitive(nested)
			continue
		}

		if _, ok := sensitiveFields[key]; !ok {
			masked[key] = value
			continue
		}

		str, ok := value.(string)
		if ok && keepsLast4(key) {
			masked[key] = MaskNumber(str)
		} else {
			masked[key] = redacted
		}
	}
	return masked
}

func keepsLast4(key string) bool {
	switch key {
	case "cardNumber", "card_number", "number", "accountNumber", "account_number":
		return true
	}
	return false
}

// MaskNumber hides all but the last four digits of a card or account
// number.
func MaskNumber(number string) (masked string) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) <= 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

// Last4 returns the trailing four digits of a number, or the whole input
// when shorter.
func Last4(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
