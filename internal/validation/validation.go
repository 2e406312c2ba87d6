// Package validation checks registration and sign-in fields against the
// account service's format rules. All checks are pure; every violation is
// collected so a client sees the full list in one response.
package validation

import (
	"net/mail"
	"strings"
	"unicode"
)

const (
	minNameLength     = 3
	minPasswordLength = 8
)

// Registration validates the register fields and returns the violations in
// evaluation order. An empty slice means the input is valid.
//
// A completely missing required field short-circuits to a single message;
// the per-field rules only apply once all required fields are present.
func Registration(name, email, password string) []string {
	var errs []string

	if name == "" || email == "" || password == "" {
		return []string{"All fields except photo are required"}
	}

	if len(name) < minNameLength {
		errs = append(errs, "Name must be at least 3 characters long")
	}

	if !isEmail(email) {
		errs = append(errs, "Invalid email format")
	}

	if len(password) < minPasswordLength {
		errs = append(errs, "Password must be at least 8 characters long")
	}

	if !containsDigit(password) {
		errs = append(errs, "Password must contain at least one number")
	}

	return errs
}

// SignIn validates the sign-in fields.
func SignIn(email, password string) []string {
	var errs []string

	if email == "" || password == "" {
		return []string{"Email and password are required"}
	}

	if !isEmail(email) {
		errs = append(errs, "Invalid email format")
	}

	return errs
}

// Name validates a standalone name update.
func Name(name string) []string {
	if name == "" {
		return []string{"Name is required"}
	}
	if len(name) < minNameLength {
		return []string{"Name must be at least 3 characters long"}
	}
	return nil
}

func isEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names and addresses without a dot in
	// the domain; require the bare addr-spec form with a dotted domain.
	if addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return strings.Contains(email[at+1:], ".")
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
