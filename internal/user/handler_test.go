package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ferdiebergado/roomkit/internal/model"
	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
	"github.com/ferdiebergado/roomkit/internal/user"
)

func testUser(now time.Time) *user.User {
	return &user.User{
		Model: model.Model{
			ID:        "u-1",
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:      testUsername,
		Email:         "alice@example.com",
		PasswordHash:  "secret-hash",
		EmailVerified: true,
		FirstName:     "Alice",
		Country:       user.CountryFR,
		IsActive:      true,
		DateJoined:    now,
	}
}

func TestHandler_Me(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)
	h := user.NewHandler(&user.StubService{})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()

		ctx := user.NewContextWithUser(context.Background(), testUser(now))
		req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/users/me", nil)
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf(message.FmtErrStatusCode, rec.Code, http.StatusOK)
		}

		var res web.OKResponse[*user.AccountData]
		if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
			t.Fatal(err)
		}

		if res.Data.Email != "alice@example.com" || !res.Data.EmailVerified || !res.Data.DateJoined.Equal(now) {
			t.Errorf("res.Data = %+v", res.Data)
		}
	})

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		rec := httptest.NewRecorder()
		h.Me(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf(message.FmtErrStatusCode, rec.Code, http.StatusUnauthorized)
		}
	})
}

func TestHandler_Me_HidesPasswordHash(t *testing.T) {
	t.Parallel()

	ctx := user.NewContextWithUser(context.Background(), testUser(time.Now()))
	req := httptest.NewRequestWithContext(ctx, http.MethodGet, "/users/me", nil)
	rec := httptest.NewRecorder()
	user.NewHandler(&user.StubService{}).Me(rec, req)

	var raw map[string]map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
		t.Fatal(err)
	}

	for _, field := range []string{"password_hash", "verification_secret"} {
		if _, ok := raw["data"][field]; ok {
			t.Errorf("response exposes %s", field)
		}
	}
}

func TestHandler_Show(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name   string
		find   func(context.Context, string) (*user.User, error)
		status int
	}{
		{"found", func(context.Context, string) (*user.User, error) { return testUser(now), nil }, http.StatusOK},
		{"not found", func(context.Context, string) (*user.User, error) { return nil, user.ErrNotFound }, http.StatusNotFound},
		{"store failure", func(context.Context, string) (*user.User, error) { return nil, errors.New("db down") }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotUsername string
			svc := &user.StubService{
				FindByUsernameFunc: func(ctx context.Context, username string) (*user.User, error) {
					gotUsername = username
					return tt.find(ctx, username)
				},
			}

			req := httptest.NewRequest(http.MethodGet, "/users/"+testUsername, nil)
			req.SetPathValue("username", testUsername)
			rec := httptest.NewRecorder()
			user.NewHandler(svc).Show(rec, req)

			if rec.Code != tt.status {
				t.Errorf(message.FmtErrStatusCode, rec.Code, tt.status)
			}

			if gotUsername != testUsername {
				t.Errorf("username = %q, want: %q", gotUsername, testUsername)
			}

			if tt.status == http.StatusOK {
				var raw map[string]map[string]any
				if err := json.NewDecoder(rec.Body).Decode(&raw); err != nil {
					t.Fatal(err)
				}
				if _, ok := raw["data"]["email"]; ok {
					t.Error("public profile exposes the email address")
				}
			}
		})
	}
}

func TestHandler_UpdateMe(t *testing.T) {
	t.Parallel()

	now := time.Now()
	var got user.ProfileParams
	svc := &user.StubService{
		UpdateProfileFunc: func(_ context.Context, userID string, params user.ProfileParams) (*user.User, error) {
			if userID != "u-1" {
				t.Errorf("userID = %q, want: %q", userID, "u-1")
			}
			got = params
			u := testUser(now)
			u.Bio = params.Bio
			u.Birthdate = params.Birthdate
			return u, nil
		},
	}

	params := user.UpdateProfileRequest{FirstName: "Alice", Country: "DE", Bio: "Hello", Birthdate: "1990-05-17"}
	ctx := user.NewContextWithUser(context.Background(), testUser(now))
	ctx = web.NewContextWithParams(ctx, params)
	req := httptest.NewRequestWithContext(ctx, http.MethodPut, "/users/me", nil)
	rec := httptest.NewRecorder()
	user.NewHandler(svc).UpdateMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf(message.FmtErrStatusCode, rec.Code, http.StatusOK)
	}

	if got.Country != user.CountryDE || got.Birthdate == nil || got.Birthdate.Format(time.DateOnly) != "1990-05-17" {
		t.Errorf("params = %+v", got)
	}

	var res web.OKResponse[*user.AccountData]
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}

	if res.Data.Birthdate != "1990-05-17" || res.Data.Bio != "Hello" {
		t.Errorf("res.Data = %+v", res.Data)
	}
}

func TestHandler_List(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name   string
		list   func(context.Context) ([]user.User, error)
		status int
		count  int
	}{
		{"returns accounts", func(context.Context) ([]user.User, error) {
			return []user.User{*testUser(now), *testUser(now)}, nil
		}, http.StatusOK, 2},
		{"empty list", func(context.Context) ([]user.User, error) { return nil, nil }, http.StatusOK, 0},
		{"store failure", func(context.Context) ([]user.User, error) { return nil, errors.New("db down") }, http.StatusInternalServerError, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			rec := httptest.NewRecorder()
			user.NewHandler(&user.StubService{ListFunc: tt.list}).List(rec, req)

			if rec.Code != tt.status {
				t.Fatalf(message.FmtErrStatusCode, rec.Code, tt.status)
			}

			if tt.status != http.StatusOK {
				return
			}

			var res web.OKResponse[*user.ListResponse]
			if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
				t.Fatal(err)
			}

			if len(res.Data.Users) != tt.count {
				t.Errorf("len(res.Data.Users) = %d, want: %d", len(res.Data.Users), tt.count)
			}
		})
	}
}
