package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Validation primitives shared by all domain models. These functions are the
// single source of truth for field constraints; models call them from their
// constructors and setters instead of duplicating range logic inline.

const (
	maxEmailLength    = 254
	minPasswordLength = 8
	maxPasswordLength = 128
	passwordSymbols   = "!@#$%^&*()_+-=[]{};':\"\\|,.<>/?"

	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Lookups and uniqueness checks operate on this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail normalizes the address and checks its shape. Returns the
// normalized address or a ValidationError tagged with the given field name.
func ValidateEmail(field, email string) (string, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return "", NewValidationError(field, "is required")
	}
	if len(normalized) > maxEmailLength {
		return "", NewValidationError(field, fmt.Sprintf("must not exceed %d characters", maxEmailLength))
	}
	if !emailPattern.MatchString(normalized) {
		return "", NewValidationError(field, "must be a valid email address")
	}
	return normalized, nil
}

// ValidatePassword enforces the password policy: 8-128 characters with at
// least one uppercase letter, one lowercase letter, one digit, and one
// symbol. The returned error names the first unmet requirement.
func ValidatePassword(field, password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError(field, fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return NewValidationError(field, fmt.Sprintf("must not exceed %d characters", maxPasswordLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		return NewValidationError(field, "must contain at least one uppercase letter")
	case !hasLower:
		return NewValidationError(field, "must contain at least one lowercase letter")
	case !hasDigit:
		return NewValidationError(field, "must contain at least one digit")
	case !hasSymbol:
		return NewValidationError(field, "must contain at least one symbol")
	}
	return nil
}

// ValidateEnum checks membership in the allowed set; the error lists the
// allowed values so clients can self-correct.
func ValidateEnum(field, value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return NewValidationError(field, "must be one of: "+strings.Join(allowed, ", "))
}

// ValidateLength checks the trimmed length of a string field.
func ValidateLength(field, value string, min, max int) error {
	n := len(strings.TrimSpace(value))
	if n < min {
		return NewValidationError(field, fmt.Sprintf("must be at least %d characters", min))
	}
	if n > max {
		return NewValidationError(field, fmt.Sprintf("must not exceed %d characters", max))
	}
	return nil
}

// ValidateCoordinates checks that both coordinates are in range. The error
// names the offending axis (latitude or longitude).
func ValidateCoordinates(lat, lng float64) error {
	if lat < MinLatitude || lat > MaxLatitude {
		return NewValidationError("latitude", fmt.Sprintf("must be between %g and %g", MinLatitude, MaxLatitude))
	}
	if lng < MinLongitude || lng > MaxLongitude {
		return NewValidationError("longitude", fmt.Sprintf("must be between %g and %g", MinLongitude, MaxLongitude))
	}
	return nil
}
