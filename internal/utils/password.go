package utils

import (
	"crypto/rand" // Random source for one-time codes
	"math/big"    // Bounded random integers
	"regexp"      // Character set validation
	"strconv"     // Code formatting
)

// allowedPasswordChars restricts passwords to letters, digits, underscore and ampersand
var allowedPasswordChars = regexp.MustCompile(`^[A-Za-z0-9_&]+$`)

// IsValidPassword checks the password policy: at least one lowercase and
// one uppercase letter, and only characters from the allowed set.
func IsValidPassword(password string) bool {
	if !allowedPasswordChars.MatchString(password) {
		return false // Empty or contains a disallowed character
	}
	var hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasLower && hasUpper
}

// GenerateOTP returns a random 6-digit numeric one-time code
func GenerateOTP() (string, error) {
	// Range [100000, 999999] so the code always has six digits
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
