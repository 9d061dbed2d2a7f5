package user

import (
	"context"
	"errors"
)

type ctxKey int

const userCtxKey ctxKey = iota

var ErrNoUserInContext = errors.New("user: no authenticated user in context")

// NewContextWithUser returns a copy of baseCtx carrying the authenticated account.
//
//nolint:ireturn //This function needs to return a context.
func NewContextWithUser(baseCtx context.Context, u *User) context.Context {
	return context.WithValue(baseCtx, userCtxKey, u)
}

func FromContext(ctx context.Context) (*User, error) {
	u, ok := ctx.Value(userCtxKey).(*User)
	if !ok || u == nil {
		return nil, ErrNoUserInContext
	}
	return u, nil
}
