package auth

import "errors"

var (
	ErrConflict               = errors.New("auth: email already registered")
	ErrUnknownIdentity        = errors.New("auth: unknown identity")
	ErrBadCredential          = errors.New("auth: bad credential")
	ErrMismatchedConfirmation = errors.New("auth: password confirmation does not match")
	ErrInvalidOrExpiredToken  = errors.New("auth: invalid or expired token")
	ErrForbidden              = errors.New("auth: forbidden")
	ErrNoSession              = errors.New("auth: no valid session")
)
