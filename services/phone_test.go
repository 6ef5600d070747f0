package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"local leading zero", "081234567890", "6281234567890"},
		{"international prefix", "6281234567890", "6281234567890"},
		{"plus prefix", "+6281234567890", "6281234567890"},
		{"bare mobile digits", "81234567890", "6281234567890"},
		{"spaces and dashes", "0812-3456-7890", "6281234567890"},
		{"surrounding whitespace", "  0812 3456 7890 ", "6281234567890"},
		{"empty", "", ""},
		{"no digits", "abc", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestValidPhone(t *testing.T) {
	assert.True(t, ValidPhone("6281234567890"))
	assert.True(t, ValidPhone("6281234567"))

	assert.False(t, ValidPhone(""))
	assert.False(t, ValidPhone("081234567890"), "local format must be normalized first")
	assert.False(t, ValidPhone("628123456"), "too few digits after country code")
	assert.False(t, ValidPhone("621234567890123456"), "too many digits after country code")
	assert.False(t, ValidPhone("+6281234567890"))
}

func TestNormalizeThenValidate(t *testing.T) {
	for _, raw := range []string{"081234567890", "+62 812-3456-7890", "81234567890"} {
		assert.True(t, ValidPhone(NormalizePhone(raw)), "raw=%q", raw)
	}
}
