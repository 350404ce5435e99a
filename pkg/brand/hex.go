package brand

import "strings"

// ValidHex reports whether s is a 3 or 6 digit hex color, with or without a
// leading '#'.
func ValidHex(s string) bool {
	c := strings.TrimPrefix(s, "#")
	if len(c) != 3 && len(c) != 6 {
		return false
	}
	for i := 0; i < len(c); i++ {
		if !isHexDigit(c[i]) {
			return false
		}
	}
	return true
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// RGB returns the 6 digit, upper-case, hash-less form of a valid hex color.
// Shorthand colors are expanded ("0f0" -> "00FF00"). Invalid input is
// returned stripped but otherwise untouched.
func RGB(s string) string {
	c := strings.TrimPrefix(s, "#")
	if !ValidHex(c) {
		return c
	}
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return strings.ToUpper(c)
}

// ARGB returns the opaque 8 digit form of a valid hex color.
func ARGB(s string) string {
	return "FF" + RGB(s)
}
