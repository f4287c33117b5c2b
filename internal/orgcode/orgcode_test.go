package orgcode

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateShape(t *testing.T) {
	t.Parallel()
	pattern := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 1000; i++ {
		code := Generate()
		if !pattern.MatchString(code) {
			t.Fatalf("Generate() = %q, want match for [A-Z0-9]{6}", code)
		}
		if !Valid(code) {
			t.Fatalf("Valid(%q) = false for generated code", code)
		}
	}
}

func TestExpiryWindow(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	expiry := ExpiryFrom(now)
	if got, want := expiry.Sub(now), 30*24*time.Hour; got != want {
		t.Errorf("ExpiryFrom window = %v, want %v", got, want)
	}
	if expiry.Before(now) {
		t.Errorf("expiry %v before creation %v", expiry, now)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in, want string
	}{
		{"abc123", "ABC123"},
		{"  xyz789 ", "XYZ789"},
		{"ALREADY", "ALREADY"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	t.Parallel()
	cases := []struct {
		code string
		want bool
	}{
		{"ABC123", true},
		{"A1B2C3", true},
		{"abc123", false},
		{"ABC12", false},
		{"ABC1234", false},
		{"ABC-12", false},
		{"", false},
	}
	for _, c := range cases {
		if got := Valid(c.code); got != c.want {
			t.Errorf("Valid(%q) = %v, want %v", c.code, got, c.want)
		}
	}
}
