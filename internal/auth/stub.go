package auth

import (
	"context"
	"errors"

	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

var (
	_ AuthService       = (*StubService)(nil)
	_ SessionResolver   = (*StubService)(nil)
	_ CapabilityChecker = (*StubService)(nil)
)

type StubService struct {
	RegisterFunc             func(ctx context.Context, params RegisterParams) (*user.User, error)
	IssueVerificationFunc    func(ctx context.Context, u *user.User) error
	CompleteVerificationFunc func(ctx context.Context, secret string) (VerificationOutcome, error)
	LoginFunc                func(ctx context.Context, email, password string) (*user.User, *session.Session, error)
	StartSessionFunc         func(ctx context.Context, u *user.User) (*session.Session, error)
	LogoutFunc               func(ctx context.Context, sessionID string) error
	ChangePasswordFunc       func(ctx context.Context, u *user.User, sessionID string, params ChangePasswordParams) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	CheckPasswordResetFunc   func(ctx context.Context, uid, token string) (*user.User, error)
	ConfirmPasswordResetFunc func(ctx context.Context, uid, token string, params ResetPasswordParams) error
	ResolveSessionFunc       func(ctx context.Context, sessionID string) (*user.User, *session.Session, error)
	HasCapabilityFunc        func(ctx context.Context, u *user.User, capability string) (bool, error)
}

func (s *StubService) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	if s.RegisterFunc == nil {
		return nil, errors.New("Register not implemented by stub")
	}
	return s.RegisterFunc(ctx, params)
}

func (s *StubService) IssueVerification(ctx context.Context, u *user.User) error {
	if s.IssueVerificationFunc == nil {
		return errors.New("IssueVerification not implemented by stub")
	}
	return s.IssueVerificationFunc(ctx, u)
}

func (s *StubService) CompleteVerification(ctx context.Context, secret string) (VerificationOutcome, error) {
	if s.CompleteVerificationFunc == nil {
		return VerificationNotFound, errors.New("CompleteVerification not implemented by stub")
	}
	return s.CompleteVerificationFunc(ctx, secret)
}

func (s *StubService) Login(ctx context.Context, email, password string) (*user.User, *session.Session, error) {
	if s.LoginFunc == nil {
		return nil, nil, errors.New("Login not implemented by stub")
	}
	return s.LoginFunc(ctx, email, password)
}

func (s *StubService) StartSession(ctx context.Context, u *user.User) (*session.Session, error) {
	if s.StartSessionFunc == nil {
		return nil, errors.New("StartSession not implemented by stub")
	}
	return s.StartSessionFunc(ctx, u)
}

func (s *StubService) Logout(ctx context.Context, sessionID string) error {
	if s.LogoutFunc == nil {
		return errors.New("Logout not implemented by stub")
	}
	return s.LogoutFunc(ctx, sessionID)
}

func (s *StubService) ChangePassword(ctx context.Context, u *user.User, sessionID string, params ChangePasswordParams) error {
	if s.ChangePasswordFunc == nil {
		return errors.New("ChangePassword not implemented by stub")
	}
	return s.ChangePasswordFunc(ctx, u, sessionID, params)
}

func (s *StubService) RequestPasswordReset(ctx context.Context, email string) error {
	if s.RequestPasswordResetFunc == nil {
		return errors.New("RequestPasswordReset not implemented by stub")
	}
	return s.RequestPasswordResetFunc(ctx, email)
}

func (s *StubService) CheckPasswordReset(ctx context.Context, uid, token string) (*user.User, error) {
	if s.CheckPasswordResetFunc == nil {
		return nil, errors.New("CheckPasswordReset not implemented by stub")
	}
	return s.CheckPasswordResetFunc(ctx, uid, token)
}

func (s *StubService) ConfirmPasswordReset(ctx context.Context, uid, token string, params ResetPasswordParams) error {
	if s.ConfirmPasswordResetFunc == nil {
		return errors.New("ConfirmPasswordReset not implemented by stub")
	}
	return s.ConfirmPasswordResetFunc(ctx, uid, token, params)
}

func (s *StubService) ResolveSession(ctx context.Context, sessionID string) (*user.User, *session.Session, error) {
	if s.ResolveSessionFunc == nil {
		return nil, nil, errors.New("ResolveSession not implemented by stub")
	}
	return s.ResolveSessionFunc(ctx, sessionID)
}

func (s *StubService) HasCapability(ctx context.Context, u *user.User, capability string) (bool, error) {
	if s.HasCapabilityFunc == nil {
		return false, errors.New("HasCapability not implemented by stub")
	}
	return s.HasCapabilityFunc(ctx, u, capability)
}
