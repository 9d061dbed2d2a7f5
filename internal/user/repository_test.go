package user_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/ferdiebergado/roomkit/internal/user"
	"github.com/jackc/pgx/v5/pgconn"
)

var userCols = []string{
	"id", "username", "email", "password_hash", "email_verified", "verification_secret",
	"verification_sent_at", "first_name", "last_name", "country", "bio", "birthdate", "is_active",
	"is_staff", "is_superuser", "metadata", "date_joined", "created_at", "updated_at",
}

const testUsername = "8b0d1f3e-4a63-4f0e-9d6b-7a1c2e3f4a5b"

func userValues(now time.Time, secret any) []driver.Value {
	return []driver.Value{
		"u-1", testUsername, "Alice@example.com", "hash", secret == nil, secret,
		now, "Alice", "Liddell", "BE", "bio", nil, true,
		false, false, []byte(`{}`), now, now, now,
	}
}

func newRepoWithMock(t *testing.T) (*user.SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	conn, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		conn.Close()
	})

	return user.NewRepository(conn), mock, conn
}

func TestSQLRepository_Create(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC().Truncate(time.Second)
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "Alice@example.com", "hash", "Alice", "Liddell", "BE", "bio",
			sqlmock.AnyArg(), false, true, false, false).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userValues(now, "abc")...))

	u, err := repo.Create(context.Background(), user.CreateParams{
		Email:        "Alice@example.com",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Liddell",
		Country:      user.CountryBE,
		Bio:          "bio",
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if u.ID != "u-1" || u.Country != user.CountryBE || u.VerificationSecret != "abc" {
		t.Errorf("unexpected user: %+v", u)
	}

	if u.VerificationSentAt == nil || !u.VerificationSentAt.Equal(now) {
		t.Errorf("u.VerificationSentAt = %v, want: %v", u.VerificationSentAt, now)
	}

	if u.Birthdate != nil {
		t.Errorf("u.Birthdate = %v, want: nil", u.Birthdate)
	}
}

func TestSQLRepository_Create_DefaultCountry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "a@example.com", "hash", "", "", "FR", "",
			sqlmock.AnyArg(), false, true, false, false).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userValues(now, nil)...))

	if _, err := repo.Create(context.Background(), user.CreateParams{
		Email: "a@example.com", PasswordHash: "hash", IsActive: true,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestSQLRepository_Create_Duplicate(t *testing.T) {
	t.Parallel()

	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), user.CreateParams{Email: "a@example.com", PasswordHash: "hash"})
	if !errors.Is(err, user.ErrDuplicateEmail) {
		t.Errorf("Create error = %v, want: %v", err, user.ErrDuplicateEmail)
	}
}

func TestSQLRepository_FindByEmail(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("Alice@example.com").
					WillReturnRows(sqlmock.NewRows(userCols).AddRow(userValues(now, nil)...))
			},
		},
		{
			name: "not found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("Alice@example.com").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: user.ErrNotFound,
		},
		{
			name: "query failed",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`FROM users WHERE email = \$1`).
					WithArgs("Alice@example.com").
					WillReturnError(errors.New("db down"))
			},
			wantErr: user.ErrQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock, _ := newRepoWithMock(t)
			tt.setup(mock)

			u, err := repo.FindByEmail(context.Background(), "Alice@example.com")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("FindByEmail error = %v, want: %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && (u.Email != "Alice@example.com" || !u.EmailVerified) {
				t.Errorf("unexpected user: %+v", u)
			}
		})
	}
}

func TestSQLRepository_FindByUsername_InvalidSlug(t *testing.T) {
	t.Parallel()

	repo, _, _ := newRepoWithMock(t)

	if _, err := repo.FindByUsername(context.Background(), "not-a-uuid"); !errors.Is(err, user.ErrNotFound) {
		t.Errorf("FindByUsername error = %v, want: %v", err, user.ErrNotFound)
	}
}

func TestSQLRepository_Find(t *testing.T) {
	t.Parallel()

	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(testUsername).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userValues(time.Now(), nil)...))

	u, err := repo.Find(context.Background(), testUsername)
	if err != nil {
		t.Fatal(err)
	}

	if u.ID != "u-1" {
		t.Errorf("u.ID = %q, want: %q", u.ID, "u-1")
	}
}

func TestSQLRepository_Find_InvalidID(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", "garbage", "not-a-uuid", "1; DROP TABLE users"} {
		repo, _, _ := newRepoWithMock(t)

		if _, err := repo.Find(context.Background(), id); !errors.Is(err, user.ErrNotFound) {
			t.Errorf("Find(%q) error = %v, want: %v", id, err, user.ErrNotFound)
		}
	}
}

func TestSQLRepository_List(t *testing.T) {
	t.Parallel()

	now := time.Now()
	repo, mock, _ := newRepoWithMock(t)

	second := userValues(now, nil)
	second[0] = "u-2"
	mock.ExpectQuery(`FROM users ORDER BY date_joined`).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userValues(now, nil)...).AddRow(second...))

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(users) != 2 || users[1].ID != "u-2" {
		t.Errorf("List() = %+v, want two users", users)
	}
}

func TestSQLRepository_UpdateProfile(t *testing.T) {
	t.Parallel()

	now := time.Now()
	birthdate := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	repo, mock, _ := newRepoWithMock(t)

	values := userValues(now, nil)
	values[11] = birthdate
	mock.ExpectQuery(`UPDATE users\s+SET first_name`).
		WithArgs("u-1", "Alice", "Liddell", "BE", "bio", birthdate).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(values...))

	u, err := repo.UpdateProfile(context.Background(), "u-1", user.ProfileParams{
		FirstName: "Alice", LastName: "Liddell", Country: user.CountryBE, Bio: "bio", Birthdate: &birthdate,
	})
	if err != nil {
		t.Fatal(err)
	}

	if u.Birthdate == nil || !u.Birthdate.Equal(birthdate) {
		t.Errorf("u.Birthdate = %v, want: %v", u.Birthdate, birthdate)
	}
}

func TestSQLRepository_SetVerificationSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"pending account", 1, nil},
		{"verified or missing account", 0, user.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, mock, _ := newRepoWithMock(t)
			mock.ExpectExec(`(?s)UPDATE users\s+SET verification_secret = \$2.*WHERE id = \$1 AND NOT email_verified`).
				WithArgs("u-1", "0123456789abcdef0123", now).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.SetVerificationSecret(context.Background(), "u-1", "0123456789abcdef0123", now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetVerificationSecret error = %v, want: %v", err, tt.wantErr)
			}
		})
	}
}

func TestSQLRepository_ConsumeVerificationSecret(t *testing.T) {
	t.Parallel()

	const pattern = `UPDATE users\s+SET email_verified = TRUE, verification_secret = NULL`

	t.Run("consumed", func(t *testing.T) {
		t.Parallel()

		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(pattern).
			WithArgs("secret", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))

		id, err := repo.ConsumeVerificationSecret(context.Background(), "secret", nil)
		if err != nil {
			t.Fatal(err)
		}

		if id != "u-1" {
			t.Errorf("id = %q, want: %q", id, "u-1")
		}
	})

	t.Run("already consumed", func(t *testing.T) {
		t.Parallel()

		issuedAfter := time.Now().Add(-time.Hour)
		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(pattern).
			WithArgs("secret", issuedAfter).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		if _, err := repo.ConsumeVerificationSecret(context.Background(), "secret", &issuedAfter); !errors.Is(err, user.ErrNotFound) {
			t.Errorf("ConsumeVerificationSecret error = %v, want: %v", err, user.ErrNotFound)
		}
	})
}

func TestSQLRepository_SetPassword(t *testing.T) {
	t.Parallel()

	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectExec(`UPDATE users SET password_hash = \$2`).
		WithArgs("u-1", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetPassword(context.Background(), "u-1", "new-hash"); err != nil {
		t.Fatal(err)
	}
}

func TestSQLRepository_Permissions(t *testing.T) {
	t.Parallel()

	repo, mock, _ := newRepoWithMock(t)
	mock.ExpectQuery(`(?s)JOIN user_permissions.*UNION.*JOIN user_groups`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"codename"}).AddRow("host").AddRow("view_users"))

	perms, err := repo.Permissions(context.Background(), "u-1")
	if err != nil {
		t.Fatal(err)
	}

	if len(perms) != 2 || perms[0] != "host" {
		t.Errorf("Permissions() = %v, want: [host view_users]", perms)
	}
}

func TestSQLRepository_GrantPermission(t *testing.T) {
	t.Parallel()

	t.Run("known permission inside a transaction", func(t *testing.T) {
		t.Parallel()

		repo, mock, conn := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT id FROM permissions WHERE codename = \$1`).
			WithArgs("host").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectExec(`INSERT INTO user_permissions`).
			WithArgs("u-1", int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := db.NewSQLTxManager(conn).RunInTx(context.Background(), func(ctx context.Context) error {
			return repo.GrantPermission(ctx, "u-1", "host")
		})
		if err != nil {
			t.Fatal(err)
		}
	})

	t.Run("unknown permission", func(t *testing.T) {
		t.Parallel()

		repo, mock, _ := newRepoWithMock(t)
		mock.ExpectQuery(`SELECT id FROM permissions WHERE codename = \$1`).
			WithArgs("fly").
			WillReturnError(sql.ErrNoRows)

		if err := repo.GrantPermission(context.Background(), "u-1", "fly"); !errors.Is(err, user.ErrUnknownPermission) {
			t.Errorf("GrantPermission error = %v, want: %v", err, user.ErrUnknownPermission)
		}
	})
}
