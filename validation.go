package main

import (
	"regexp"
	"strings"
)

// Validation runs as explicit sequential checks because the order of
// failures is part of the contract: missing fields and policy acceptance
// first, then email format, then uniqueness, then name and password rules.

var (
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	nameRE  = regexp.MustCompile(`^[a-zA-Z\s\-']+$`)
)

func validEmail(email string) bool {
	return emailRE.MatchString(email)
}

// validateName enforces 2-50 chars, letters/spaces/hyphens/apostrophes.
// Returns an empty string when valid.
func validateName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "Name is required"
	}
	if len(name) < 2 {
		return "Name must be at least 2 characters"
	}
	if len(name) > 50 {
		return "Name must not exceed 50 characters"
	}
	if !nameRE.MatchString(name) {
		return "Name can only contain letters, spaces, hyphens, and apostrophes"
	}
	return ""
}

// missingFields returns the names whose values are empty, preserving order.
func missingFields(fields map[string]string, order []string) []string {
	var missing []string
	for _, name := range order {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func sanitize(s string) string {
	return strings.TrimSpace(s)
}
