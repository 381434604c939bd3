package domain

import "strings"

// NormalizeUKPostcode rewrites sloppy UK postcode input into the canonical
// outward-inward form ("ls270bn" -> "LS27 0BN", "M314qn" -> "M31 4QN").
// It only kicks in when the cleaned token length looks like a UK postcode;
// anything else (street addresses, place names) is returned trimmed.
func NormalizeUKPostcode(value string) string {
	if value == "" {
		return value
	}

	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	raw := b.String()

	if len(raw) < 5 || len(raw) > 7 {
		return strings.TrimSpace(value)
	}

	return raw[:len(raw)-3] + " " + raw[len(raw)-3:]
}
