// Package password provides one-way credential hashing and the signup
// password strength policy.
package password

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Policy holds the configurable strength requirements applied at signup.
type Policy struct {
	MinLength          int
	RequireUppercase   bool
	RequireNumber      bool
	RequireSpecialChar bool
	Cost               int // bcrypt cost; 0 means bcrypt.DefaultCost
}

func (p Policy) cost() int {
	if p.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return p.Cost
}

// Hash produces a bcrypt hash of the password at the policy's cost.
// Intentionally the slowest operation in the auth path.
func (p Policy) Hash(password string) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

// Verify reports whether password matches the stored hash.
func Verify(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

const specialChars = "!@#$%^&*"

// Validate returns the list of unmet strength requirements, empty when the
// password satisfies the policy.
func (p Policy) Validate(password string) []string {
	var errs []string
	min := p.MinLength
	if min <= 0 {
		min = 8
	}
	if len(password) < min {
		errs = append(errs, fmt.Sprintf("Password must be at least %d characters long", min))
	}
	if p.RequireUppercase && !strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		errs = append(errs, "Password must contain at least one uppercase letter")
	}
	if p.RequireNumber && !strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }) {
		errs = append(errs, "Password must contain at least one number")
	}
	if p.RequireSpecialChar && !strings.ContainsAny(password, specialChars) {
		errs = append(errs, "Password must contain at least one special character (!@#$%^&*)")
	}
	return errs
}
