package session

import (
	"context"
	"errors"
)

var _ Manager = (*StubManager)(nil)

type StubManager struct {
	EstablishFunc func(ctx context.Context, userID, fingerprint string) (*Session, error)
	FindFunc      func(ctx context.Context, id string) (*Session, error)
	RebindFunc    func(ctx context.Context, id, fingerprint string) error
	DestroyFunc   func(ctx context.Context, id string) error
}

func (s *StubManager) Establish(ctx context.Context, userID, fingerprint string) (*Session, error) {
	if s.EstablishFunc == nil {
		return nil, errors.New("Establish not implemented by stub")
	}
	return s.EstablishFunc(ctx, userID, fingerprint)
}

func (s *StubManager) Find(ctx context.Context, id string) (*Session, error) {
	if s.FindFunc == nil {
		return nil, errors.New("Find not implemented by stub")
	}
	return s.FindFunc(ctx, id)
}

func (s *StubManager) Rebind(ctx context.Context, id, fingerprint string) error {
	if s.RebindFunc == nil {
		return errors.New("Rebind not implemented by stub")
	}
	return s.RebindFunc(ctx, id, fingerprint)
}

func (s *StubManager) Destroy(ctx context.Context, id string) error {
	if s.DestroyFunc == nil {
		return errors.New("Destroy not implemented by stub")
	}
	return s.DestroyFunc(ctx, id)
}
