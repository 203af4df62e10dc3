package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"mixed case with allowed symbols", "Abc123_&", true},
		{"no uppercase", "abc123", false},
		{"no lowercase", "ABC123", false},
		{"disallowed symbol", "abc!123", false},
		{"empty", "", false},
		{"letters only", "Abcdef", true},
		{"space rejected", "Abc 123", false},
		{"dash rejected", "Abc-123", false},
		{"ampersand and underscore allowed", "a_B&", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPassword(tt.password), "password %q", tt.password)
		})
	}
}

func TestGenerateOTP(t *testing.T) {
	// Codes must always be six digits; run a batch to cover the range
	for i := 0; i < 200; i++ {
		code, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err, "code %q is not numeric", code)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}
