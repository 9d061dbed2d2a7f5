package jwt

import (
	"errors"
	"time"
)

var ErrInvalidToken = errors.New("jwt: invalid token")

// Claims represents the JWT claims that are processed for password resets.
type Claims struct {
	Subject     string
	Audience    string
	Fingerprint string
	ExpiresAt   time.Time
}

// Signer defines methods for signing and verifying JWT tokens.
type Signer interface {
	Sign(claims *Claims, duration time.Duration) (token string, err error)
	// Verify checks the signature, expiry and audience of tokenString.
	Verify(tokenString, audience string) (*Claims, error)
}
