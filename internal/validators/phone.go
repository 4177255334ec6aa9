package validators

import "strings"

const (
	minPhoneDigits = 8
	maxPhoneDigits = 15
)

// NormalizePhone strips formatting from a phone number, keeping a leading
// "+". Customers are matched by this form, so "(11) 99999-0000" and
// "11999990000" are the same person.
func NormalizePhone(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", false
		}
	}

	if digits < minPhoneDigits || digits > maxPhoneDigits {
		return "", false
	}
	return b.String(), true
}
