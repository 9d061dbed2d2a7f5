// Package session keeps server side login sessions.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session: not found")

// Session binds an opaque id to an account and the credential it logged in with.
type Session struct {
	ID          string    `json:"-"`
	UserID      string    `json:"user_id"`
	Fingerprint string    `json:"fgp"`
	CreatedAt   time.Time `json:"created_at"`
}

type Manager interface {
	Establish(ctx context.Context, userID, fingerprint string) (*Session, error)
	Find(ctx context.Context, id string) (*Session, error)
	// Rebind replaces the credential fingerprint of an existing session, keeping its expiry.
	Rebind(ctx context.Context, id, fingerprint string) error
	Destroy(ctx context.Context, id string) error
}

type ctxKey int

const sessionCtxKey ctxKey = iota

func NewContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, sess)
}

func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionCtxKey).(*Session)
	return sess, ok && sess != nil
}
