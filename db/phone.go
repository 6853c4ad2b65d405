package db

import "strings"

// NormalizePhone rewrites a local number with a leading 0 to the 62 country
// prefix. Anything else is returned trimmed but otherwise unchanged.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "0") {
		return "62" + phone[1:]
	}
	return phone
}

// CanonicalPhone strips every non-digit and forces the 62 prefix. It returns
// "" when no digits remain.
func CanonicalPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return "62" + digits[1:]
	case strings.HasPrefix(digits, "62"):
		return digits
	default:
		return "62" + digits
	}
}
