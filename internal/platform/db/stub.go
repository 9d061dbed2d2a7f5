package db

import (
	"context"
	"errors"
)

var _ TxManager = (*StubTxManager)(nil)

type StubTxManager struct {
	RunInTxFunc func(context.Context, func(context.Context) error) error
}

func (s *StubTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	if s.RunInTxFunc == nil {
		return errors.New("RunInTx not implemented by StubTxManager")
	}

	return s.RunInTxFunc(ctx, fn)
}

// PassthroughTxManager runs fn without a transaction.
var PassthroughTxManager = &StubTxManager{
	RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	},
}
