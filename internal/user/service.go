package user

import (
	"context"
	"fmt"
)

// Service exposes profile reads and edits. Credential and verification state
// are owned by the auth package.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	if !u.IsActive {
		return nil, ErrNotFound
	}

	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error) {
	if params.Country != "" && !params.Country.Valid() {
		return nil, fmt.Errorf("update profile: unsupported country %q", params.Country)
	}

	u, err := s.repo.UpdateProfile(ctx, userID, params)
	if err != nil {
		return nil, fmt.Errorf("update profile of user %s: %w", userID, err)
	}
	return u, nil
}
