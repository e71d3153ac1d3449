package line

import "strings"

// NormalizeID strips leading zeros from a digit token ("007" → "7").
// An all-zero token normalizes to "0". The token is expected to be all
// decimal digits already; no validation happens here.
func NormalizeID(tok string) string {
	trimmed := strings.TrimLeft(tok, "0")
	if trimmed == "" {
		if tok == "" {
			return ""
		}
		return "0"
	}
	return trimmed
}

// PadRef left-pads a reference token with zeros to three digits ("2" → "002").
// Longer tokens are returned unchanged.
func PadRef(tok string) string {
	if len(tok) >= 3 {
		return tok
	}
	return strings.Repeat("0", 3-len(tok)) + tok
}
