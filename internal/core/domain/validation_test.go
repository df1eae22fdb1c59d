package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	got, err := ValidateEmail("email", "  Ops@Example.COM ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ops@example.com" {
		t.Fatalf("expected normalized email, got %q", got)
	}

	for _, bad := range []string{"", "not-an-email", "a@b", "@example.com", "user@.com"} {
		if _, err := ValidateEmail("email", bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}

	long := strings.Repeat("a", 250) + "@example.com"
	if _, err := ValidateEmail("email", long); err == nil {
		t.Fatalf("expected error for overlong email")
	}
}

func TestValidatePassword_NamesMissingRequirement(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{"too short", "Ab1!", "at least 8"},
		{"too long", strings.Repeat("Ab1!", 40), "not exceed 128"},
		{"no uppercase", "abcdef1!", "uppercase"},
		{"no lowercase", "ABCDEF1!", "lowercase"},
		{"no digit", "Abcdefg!", "digit"},
		{"no symbol", "Abcdefg1", "symbol"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword("password", tc.password)
			if err == nil {
				t.Fatalf("expected error for %q", tc.password)
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != "password" {
				t.Fatalf("expected field password, got %q", ve.Field)
			}
			if !strings.Contains(ve.Message, tc.wantMsg) {
				t.Fatalf("expected message containing %q, got %q", tc.wantMsg, ve.Message)
			}
		})
	}

	if err := ValidatePassword("password", "Abcdef1!"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}
}

func TestValidateEnum(t *testing.T) {
	allowed := []string{"admin", "supervisor"}
	if err := ValidateEnum("role", "admin", allowed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ValidateEnum("role", "driver", allowed)
	if err == nil {
		t.Fatalf("expected error for disallowed value")
	}
	if !strings.Contains(err.Error(), "admin, supervisor") {
		t.Fatalf("expected error to name allowed values, got %q", err.Error())
	}
}

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng  float64
		wantField string
	}{
		{0, 0, ""},
		{-90, -180, ""},
		{90, 180, ""},
		{91, 0, "latitude"},
		{-90.5, 0, "latitude"},
		{0, 181, "longitude"},
		{0, -180.1, "longitude"},
	}

	for _, tc := range cases {
		err := ValidateCoordinates(tc.lat, tc.lng)
		if tc.wantField == "" {
			if err != nil {
				t.Fatalf("(%g,%g): unexpected error %v", tc.lat, tc.lng, err)
			}
			continue
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("(%g,%g): expected ValidationError, got %v", tc.lat, tc.lng, err)
		}
		if ve.Field != tc.wantField {
			t.Fatalf("(%g,%g): expected field %q, got %q", tc.lat, tc.lng, tc.wantField, ve.Field)
		}
	}
}

func TestValidateLength(t *testing.T) {
	if err := ValidateLength("name", "  ab  ", 2, 10); err != nil {
		t.Fatalf("trimmed length should pass: %v", err)
	}
	if err := ValidateLength("name", "a", 2, 10); err == nil {
		t.Fatalf("expected error below minimum")
	}
	if err := ValidateLength("name", strings.Repeat("x", 11), 2, 10); err == nil {
		t.Fatalf("expected error above maximum")
	}
}
