package user_test

import (
	"testing"

	"github.com/ferdiebergado/roomkit/internal/user"
)

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"Alice@Example.COM", "Alice@example.com"},
		{"  bob@example.com ", "bob@example.com"},
		{"John.Doe@EXAMPLE.org", "John.Doe@example.org"},
		{"no-at-sign", "no-at-sign"},
		{"weird@name@Host.IO", "weird@name@host.io"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			if got := user.NormalizeEmail(tt.in); got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, want: %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCountry_Valid(t *testing.T) {
	t.Parallel()

	for _, c := range []user.Country{"FR", "BE", "DE", "EN", "ES", "IT", "LT", "PL", "UA"} {
		if !c.Valid() {
			t.Errorf("Country(%q).Valid() = false, want: true", c)
		}
	}

	for _, c := range []user.Country{"", "US", "fr"} {
		if c.Valid() {
			t.Errorf("Country(%q).Valid() = true, want: false", c)
		}
	}
}

func TestUser_FullName(t *testing.T) {
	t.Parallel()

	u := &user.User{FirstName: "Ada", LastName: "Lovelace"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Errorf("FullName() = %q, want: %q", got, "Ada Lovelace")
	}

	u = &user.User{LastName: "Lovelace"}
	if got := u.FullName(); got != "Lovelace" {
		t.Errorf("FullName() = %q, want: %q", got, "Lovelace")
	}
}
