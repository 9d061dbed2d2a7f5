package jwt

import (
	"errors"
	"time"
)

var _ Signer = (*StubSigner)(nil)

type StubSigner struct {
	SignFunc   func(claims *Claims, duration time.Duration) (string, error)
	VerifyFunc func(tokenString, audience string) (*Claims, error)
}

func (s *StubSigner) Sign(claims *Claims, duration time.Duration) (string, error) {
	if s.SignFunc == nil {
		return "", errors.New("Sign() not implemented by stub")
	}

	return s.SignFunc(claims, duration)
}

func (s *StubSigner) Verify(tokenString, audience string) (*Claims, error) {
	if s.VerifyFunc == nil {
		return nil, errors.New("Verify() not implemented by stub")
	}

	return s.VerifyFunc(tokenString, audience)
}
