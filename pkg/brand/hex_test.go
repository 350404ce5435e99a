package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidHex(t *testing.T) {
	valid := []string{"fff", "#fff", "FFF", "112233", "#112233", "a1B2c3", "#000"}
	for _, s := range valid {
		assert.True(t, ValidHex(s), "expected %q to be valid", s)
	}

	invalid := []string{"", "#", "12345", "zzz", "#1234567", "ggg", "12 345", "#12345", "##fff", "ｆｆｆ"}
	for _, s := range invalid {
		assert.False(t, ValidHex(s), "expected %q to be invalid", s)
	}
}

func TestValidHexExhaustiveShort(t *testing.T) {
	const digits = "0123456789abcdefABCDEF"
	for i := 0; i < len(digits); i++ {
		for j := 0; j < len(digits); j++ {
			s := string([]byte{digits[i], digits[j], digits[(i+j)%len(digits)]})
			assert.True(t, ValidHex(s))
			assert.True(t, ValidHex("#"+s))
			assert.True(t, ValidHex(s+s))
			assert.False(t, ValidHex(s[:2]))
		}
	}
}

func TestRGB(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#112233", "112233"},
		{"0f0", "00FF00"},
		{"#b0aea5", "B0AEA5"},
		{"000", "000000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RGB(tt.in))
		})
	}
	assert.Equal(t, "FF00FF00", ARGB("#0f0"))
}
