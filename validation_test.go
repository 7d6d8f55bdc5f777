package main

import (
	"strings"
	"testing"
)

func TestValidEmail(t *testing.T) {
	valid := []string{"ana@example.com", "a.b+tag@sub.domain.ro", "x@y.co"}
	invalid := []string{"", "not-an-email", "@example.com", "a@b", "a b@c.com", "a@b .com"}
	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("validEmail(%q) = false, want true", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("validEmail(%q) = true, want false", e)
		}
	}
}

func TestValidateName(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"Ana Pop", true},
		{"Jean-Luc O'Neill", true},
		{"X", false},  // too short
		{"", false},   // missing
		{"  ", false}, // whitespace only
		{"Ana123", false},
		{strings.Repeat("a", 51), false}, // too long
	}
	for _, c := range cases {
		msg := validateName(c.name)
		if c.ok && msg != "" {
			t.Errorf("validateName(%q) = %q, want valid", c.name, msg)
		}
		if !c.ok && msg == "" {
			t.Errorf("validateName(%q) accepted, want rejection", c.name)
		}
	}
}

func TestMissingFields(t *testing.T) {
	got := missingFields(map[string]string{
		"name":  "Ana",
		"email": "",
		"pass":  "",
	}, []string{"name", "email", "pass"})
	if len(got) != 2 || got[0] != "email" || got[1] != "pass" {
		t.Fatalf("missingFields = %v", got)
	}
}
