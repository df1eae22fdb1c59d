package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

// UserRoles is the allowed role set, in the order reported to clients.
var UserRoles = []string{RoleAdmin, RoleSupervisor}

const (
	minUserNameLength = 2
	maxUserNameLength = 100
	// bcrypt hashes are 60 bytes; anything shorter than this is not a
	// real hash and must never be stored.
	minPasswordHashLength = 20
)

// User models an authenticated actor in the system. PasswordHash is never
// serialized to JSON; the struct itself is the safe external view.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidateIdentity checks the email, name, and role of a prospective user
// and returns the normalized email. NewUser applies the same checks;
// callers use it to fail fast before expensive work such as password
// hashing.
func ValidateIdentity(email, name, role string) (string, error) {
	normalized, err := ValidateEmail("email", email)
	if err != nil {
		return "", err
	}
	if err := ValidateLength("name", name, minUserNameLength, maxUserNameLength); err != nil {
		return "", err
	}
	if err := ValidateEnum("role", role, UserRoles); err != nil {
		return "", err
	}
	return normalized, nil
}

// NewUser constructs a validated User. Email is normalized to lowercase,
// the name trimmed. It is impossible to obtain an invalid instance: any
// out-of-contract value returns a field-tagged ValidationError.
func NewUser(email, name, role, passwordHash string) (*User, error) {
	normalized, err := ValidateIdentity(email, name, role)
	if err != nil {
		return nil, err
	}
	if len(passwordHash) < minPasswordHashLength {
		return nil, NewValidationError("password_hash", "does not look like a password hash")
	}

	return &User{
		Email:        normalized,
		Name:         strings.TrimSpace(name),
		Role:         role,
		PasswordHash: passwordHash,
	}, nil
}

// Rename updates the display name, keeping the length invariant.
func (u *User) Rename(name string) error {
	if err := ValidateLength("name", name, minUserNameLength, maxUserNameLength); err != nil {
		return err
	}
	u.Name = strings.TrimSpace(name)
	return nil
}

// ChangeRole moves the user to another allowed role.
func (u *User) ChangeRole(role string) error {
	if err := ValidateEnum("role", role, UserRoles); err != nil {
		return err
	}
	u.Role = role
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
