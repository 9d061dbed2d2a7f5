package auth_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ferdiebergado/roomkit/internal/model"
	"github.com/ferdiebergado/roomkit/internal/user"
	"github.com/google/uuid"
)

var _ user.Repository = (*memRepo)(nil)

// memRepo is an in-memory user store with the same uniqueness and
// verification semantics as the SQL repository.
type memRepo struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*user.User
	perms    map[string][]string
	known    []string
	creates  int
	setPassN int

	// secretErr fails SetVerificationSecret when set.
	secretErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users: make(map[string]*user.User),
		perms: make(map[string][]string),
		known: []string{"host", "view_users"},
	}
}

func (r *memRepo) Create(_ context.Context, params user.CreateParams) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.creates++
	for _, u := range r.users {
		if u.Email == params.Email {
			return nil, user.ErrDuplicateEmail
		}
	}

	r.seq++
	now := time.Now()
	u := &user.User{
		Model:         model.Model{ID: fmt.Sprintf("00000000-0000-0000-0000-%012d", r.seq), CreatedAt: now, UpdatedAt: now},
		Username:      fmt.Sprintf("user-%d", r.seq),
		Email:         params.Email,
		PasswordHash:  params.PasswordHash,
		EmailVerified: params.EmailVerified,
		FirstName:     params.FirstName,
		LastName:      params.LastName,
		Country:       params.Country,
		IsActive:      params.IsActive,
		IsStaff:       params.IsStaff,
		IsSuperuser:   params.IsSuperuser,
		DateJoined:    now,
	}
	r.users[u.ID] = u

	clone := *u
	return &clone, nil
}

func (r *memRepo) get(userID string) *user.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil
	}
	clone := *u
	return &clone
}

func (r *memRepo) update(userID string, fn func(u *user.User)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.users[userID])
}

func (r *memRepo) Find(_ context.Context, userID string) (*user.User, error) {
	if uuid.Validate(userID) != nil {
		return nil, user.ErrNotFound
	}
	if u := r.get(userID); u != nil {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *memRepo) FindByUsername(_ context.Context, username string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrNotFound
}

func (r *memRepo) List(_ context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *memRepo) UpdateProfile(_ context.Context, userID string, params user.ProfileParams) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	u.FirstName, u.LastName, u.Country, u.Bio, u.Birthdate = params.FirstName, params.LastName, params.Country, params.Bio, params.Birthdate
	clone := *u
	return &clone, nil
}

func (r *memRepo) SetVerificationSecret(_ context.Context, userID, secret string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.secretErr != nil {
		return r.secretErr
	}

	u, ok := r.users[userID]
	if !ok || u.EmailVerified {
		return user.ErrNotFound
	}
	u.VerificationSecret = secret
	u.VerificationSentAt = &sentAt
	return nil
}

func (r *memRepo) ConsumeVerificationSecret(_ context.Context, secret string, issuedAfter *time.Time) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.EmailVerified || u.VerificationSecret != secret {
			continue
		}
		if issuedAfter != nil && (u.VerificationSentAt == nil || u.VerificationSentAt.Before(*issuedAfter)) {
			continue
		}
		u.EmailVerified = true
		u.VerificationSecret = ""
		u.VerificationSentAt = nil
		return u.ID, nil
	}
	return "", user.ErrNotFound
}

func (r *memRepo) SetPassword(_ context.Context, userID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	r.setPassN++
	return nil
}

func (r *memRepo) Permissions(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.perms[userID]), nil
}

func (r *memRepo) GrantPermission(_ context.Context, userID, codename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !slices.Contains(r.known, codename) {
		return user.ErrUnknownPermission
	}
	if !slices.Contains(r.perms[userID], codename) {
		r.perms[userID] = append(r.perms[userID], codename)
	}
	return nil
}
