package user

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ferdiebergado/roomkit/internal/model"
)

type Country string

const (
	CountryFR Country = "FR"
	CountryBE Country = "BE"
	CountryDE Country = "DE"
	CountryEN Country = "EN"
	CountryES Country = "ES"
	CountryIT Country = "IT"
	CountryLT Country = "LT"
	CountryPL Country = "PL"
	CountryUA Country = "UA"

	DefaultCountry = CountryFR
)

func (c Country) Valid() bool {
	switch c {
	case CountryFR, CountryBE, CountryDE, CountryEN, CountryES, CountryIT, CountryLT, CountryPL, CountryUA:
		return true
	default:
		return false
	}
}

// User is an account. It is never deleted; IsActive is cleared instead.
type User struct {
	model.Model

	Username     string
	Email        string
	PasswordHash string

	EmailVerified bool
	// VerificationSecret is non-empty exactly while verification is pending.
	VerificationSecret string
	VerificationSentAt *time.Time

	FirstName string
	LastName  string
	Country   Country
	Bio       string
	Birthdate *time.Time

	IsActive    bool
	IsStaff     bool
	IsSuperuser bool
	DateJoined  time.Time
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u *User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID),
		slog.String("username", u.Username),
		slog.Bool("email_verified", u.EmailVerified),
		slog.Bool("is_active", u.IsActive),
	)
}

// NormalizeEmail trims email and lower-cases its domain part. The local part is kept as is.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at+1] + strings.ToLower(email[at+1:])
}
