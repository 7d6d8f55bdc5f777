package password

import "strings"

// Deny list of frequently leaked passwords. Matching is substring-based and
// case-insensitive, so "MyPassword123!" is still rejected.
var commonPasswords = []string{
	"password123",
	"password", "password1",
	"123456", "123456789",
	"12345678",
	"qwerty", "qwerty123",
	"abc123", "admin",
	"welcome", "login",
	"letmein", "dragon",
	"master", "monkey",
}

// IsCommon reports whether the password contains a known-common password.
func IsCommon(password string) bool {
	lower := strings.ToLower(password)
	for _, common := range commonPasswords {
		if strings.Contains(lower, common) {
			return true
		}
	}
	return false
}
