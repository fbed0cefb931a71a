package phone

import "strings"

// Normalize canonicalizes a phone number for comparison: every character is
// stripped except digits and a leading "+". Empty input yields "".
// Normalizing an already-normalized number is a no-op.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	return b.String()
}

// stripPrefix removes a leading "+" or "00" international escape so that
// area-code and premium-prefix checks see bare digits.
func stripPrefix(number string) string {
	if strings.HasPrefix(number, "+") {
		return number[1:]
	}
	if strings.HasPrefix(number, "00") {
		return number[2:]
	}
	return number
}
