package user

import (
	"context"
	"errors"
	"time"
)

type StubService struct {
	ListFunc           func(ctx context.Context) ([]User, error)
	FindByUsernameFunc func(ctx context.Context, username string) (*User, error)
	UpdateProfileFunc  func(ctx context.Context, userID string, params ProfileParams) (*User, error)
}

var _ UserService = &StubService{}

func (s *StubService) List(ctx context.Context) ([]User, error) {
	if s.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return s.ListFunc(ctx)
}

func (s *StubService) FindByUsername(ctx context.Context, username string) (*User, error) {
	if s.FindByUsernameFunc == nil {
		return nil, errors.New("FindByUsername() not implemented by stub")
	}
	return s.FindByUsernameFunc(ctx, username)
}

func (s *StubService) UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error) {
	if s.UpdateProfileFunc == nil {
		return nil, errors.New("UpdateProfile() not implemented by stub")
	}
	return s.UpdateProfileFunc(ctx, userID, params)
}

type StubRepo struct {
	CreateFunc                    func(ctx context.Context, params CreateParams) (*User, error)
	FindFunc                      func(ctx context.Context, userID string) (*User, error)
	FindByEmailFunc               func(ctx context.Context, email string) (*User, error)
	FindByUsernameFunc            func(ctx context.Context, username string) (*User, error)
	ListFunc                      func(ctx context.Context) ([]User, error)
	UpdateProfileFunc             func(ctx context.Context, userID string, params ProfileParams) (*User, error)
	SetVerificationSecretFunc     func(ctx context.Context, userID, secret string, sentAt time.Time) error
	ConsumeVerificationSecretFunc func(ctx context.Context, secret string, issuedAfter *time.Time) (string, error)
	SetPasswordFunc               func(ctx context.Context, userID, passwordHash string) error
	PermissionsFunc               func(ctx context.Context, userID string) ([]string, error)
	GrantPermissionFunc           func(ctx context.Context, userID, codename string) error
}

var _ Repository = &StubRepo{}

func (r *StubRepo) Create(ctx context.Context, params CreateParams) (*User, error) {
	if r.CreateFunc == nil {
		return nil, errors.New("Create() not implemented by stub")
	}
	return r.CreateFunc(ctx, params)
}

func (r *StubRepo) Find(ctx context.Context, userID string) (*User, error) {
	if r.FindFunc == nil {
		return nil, errors.New("Find() not implemented by stub")
	}
	return r.FindFunc(ctx, userID)
}

func (r *StubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	if r.FindByEmailFunc == nil {
		return nil, errors.New("FindByEmail() not implemented by stub")
	}
	return r.FindByEmailFunc(ctx, email)
}

func (r *StubRepo) FindByUsername(ctx context.Context, username string) (*User, error) {
	if r.FindByUsernameFunc == nil {
		return nil, errors.New("FindByUsername() not implemented by stub")
	}
	return r.FindByUsernameFunc(ctx, username)
}

func (r *StubRepo) List(ctx context.Context) ([]User, error) {
	if r.ListFunc == nil {
		return nil, errors.New("List() not implemented by stub")
	}
	return r.ListFunc(ctx)
}

func (r *StubRepo) UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error) {
	if r.UpdateProfileFunc == nil {
		return nil, errors.New("UpdateProfile() not implemented by stub")
	}
	return r.UpdateProfileFunc(ctx, userID, params)
}

func (r *StubRepo) SetVerificationSecret(ctx context.Context, userID, secret string, sentAt time.Time) error {
	if r.SetVerificationSecretFunc == nil {
		return errors.New("SetVerificationSecret() not implemented by stub")
	}
	return r.SetVerificationSecretFunc(ctx, userID, secret, sentAt)
}

func (r *StubRepo) ConsumeVerificationSecret(ctx context.Context, secret string, issuedAfter *time.Time) (string, error) {
	if r.ConsumeVerificationSecretFunc == nil {
		return "", errors.New("ConsumeVerificationSecret() not implemented by stub")
	}
	return r.ConsumeVerificationSecretFunc(ctx, secret, issuedAfter)
}

func (r *StubRepo) SetPassword(ctx context.Context, userID, passwordHash string) error {
	if r.SetPasswordFunc == nil {
		return errors.New("SetPassword() not implemented by stub")
	}
	return r.SetPasswordFunc(ctx, userID, passwordHash)
}

func (r *StubRepo) Permissions(ctx context.Context, userID string) ([]string, error) {
	if r.PermissionsFunc == nil {
		return nil, errors.New("Permissions() not implemented by stub")
	}
	return r.PermissionsFunc(ctx, userID)
}

func (r *StubRepo) GrantPermission(ctx context.Context, userID, codename string) error {
	if r.GrantPermissionFunc == nil {
		return errors.New("GrantPermission() not implemented by stub")
	}
	return r.GrantPermissionFunc(ctx, userID, codename)
}
