package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/google/uuid"
)

var _ Repository = &SQLRepository{}

var (
	ErrNotFound          = errors.New("user repository: user not found")
	ErrDuplicateEmail    = errors.New("user repository: email already registered")
	ErrUnknownPermission = errors.New("user repository: unknown permission")
	ErrQueryFailed       = errors.New("user repository: query failed")
)

// Repository is the system of record for accounts.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]User, error)
	UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error)
	SetVerificationSecret(ctx context.Context, userID, secret string, sentAt time.Time) error
	// ConsumeVerificationSecret marks the pending account holding secret as verified and
	// clears the secret in one statement. Secrets issued before issuedAfter are ignored
	// unless issuedAfter is nil.
	ConsumeVerificationSecret(ctx context.Context, secret string, issuedAfter *time.Time) (userID string, err error)
	SetPassword(ctx context.Context, userID, passwordHash string) error
	Permissions(ctx context.Context, userID string) ([]string, error)
	GrantPermission(ctx context.Context, userID, codename string) error
}

type CreateParams struct {
	Email         string
	PasswordHash  string
	FirstName     string
	LastName      string
	Country       Country
	Bio           string
	Birthdate     *time.Time
	EmailVerified bool
	IsActive      bool
	IsStaff       bool
	IsSuperuser   bool
}

type ProfileParams struct {
	FirstName string
	LastName  string
	Country   Country
	Bio       string
	Birthdate *time.Time
}

type SQLRepository struct {
	db db.Executor
}

func NewRepository(dbExec db.Executor) *SQLRepository {
	return &SQLRepository{db: dbExec}
}

//nolint:ireturn //Returns either the ambient transaction or the pool.
func (r *SQLRepository) exec(ctx context.Context) db.Executor {
	return db.ExecutorFromContext(ctx, r.db)
}

const userColumns = `id, username, email, password_hash, email_verified, verification_secret,
verification_sent_at, first_name, last_name, country, bio, birthdate, is_active, is_staff,
is_superuser, metadata, date_joined, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var (
		u           User
		secret      sql.NullString
		sentAt      sql.NullTime
		birthdate   sql.NullTime
		country     string
		metadataRaw []byte
	)

	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.EmailVerified, &secret,
		&sentAt, &u.FirstName, &u.LastName, &country, &u.Bio, &birthdate, &u.IsActive, &u.IsStaff,
		&u.IsSuperuser, &metadataRaw, &u.DateJoined, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	u.VerificationSecret = secret.String
	u.Country = Country(country)
	u.Metadata = metadataRaw
	if sentAt.Valid {
		u.VerificationSentAt = &sentAt.Time
	}
	if birthdate.Valid {
		u.Birthdate = &birthdate.Time
	}

	return &u, nil
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

const QueryUserCreate = `
INSERT INTO users (username, email, password_hash, first_name, last_name, country, bio, birthdate,
email_verified, is_active, is_staff, is_superuser)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + userColumns

func (r *SQLRepository) Create(ctx context.Context, params CreateParams) (*User, error) {
	country := params.Country
	if country == "" {
		country = DefaultCountry
	}

	row := r.exec(ctx).QueryRowContext(ctx, QueryUserCreate,
		uuid.NewString(), params.Email, params.PasswordHash, params.FirstName, params.LastName,
		string(country), params.Bio, nullableTime(params.Birthdate), params.EmailVerified,
		params.IsActive, params.IsStaff, params.IsSuperuser)

	u, err := scanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: create user: %v", ErrQueryFailed, err)
	}

	return u, nil
}

const QueryUserFind = "SELECT " + userColumns + " FROM users WHERE id = $1"

// Find returns ErrNotFound for ids that are not uuids without querying the store.
func (r *SQLRepository) Find(ctx context.Context, userID string) (*User, error) {
	if uuid.Validate(userID) != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, QueryUserFind, userID)
}

const QueryUserFindByEmail = "SELECT " + userColumns + " FROM users WHERE email = $1 LIMIT 1"

func (r *SQLRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, QueryUserFindByEmail, email)
}

const QueryUserFindByUsername = "SELECT " + userColumns + " FROM users WHERE username = $1 LIMIT 1"

func (r *SQLRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	if uuid.Validate(username) != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, QueryUserFindByUsername, username)
}

func (r *SQLRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	u, err := scanUser(r.exec(ctx).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: find user: %v", ErrQueryFailed, err)
	}
	return u, nil
}

const QueryUserList = "SELECT " + userColumns + " FROM users ORDER BY date_joined, id"

func (r *SQLRepository) List(ctx context.Context) ([]User, error) {
	rows, err := r.exec(ctx).QueryContext(ctx, QueryUserList)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %v", ErrQueryFailed, err)
	}
	defer rows.Close()

	//nolint:prealloc //Cannot identify the length of the rows without running another query.
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("user repository: scan row: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user repository: iterate over user rows: %w", err)
	}

	return users, nil
}

const QueryUserUpdateProfile = `
UPDATE users
SET first_name = $2, last_name = $3, country = $4, bio = $5, birthdate = $6, updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns

func (r *SQLRepository) UpdateProfile(ctx context.Context, userID string, params ProfileParams) (*User, error) {
	country := params.Country
	if country == "" {
		country = DefaultCountry
	}

	row := r.exec(ctx).QueryRowContext(ctx, QueryUserUpdateProfile, userID,
		params.FirstName, params.LastName, string(country), params.Bio, nullableTime(params.Birthdate))

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: update profile of user %s: %v", ErrQueryFailed, userID, err)
	}
	return u, nil
}

const QueryUserSetVerificationSecret = `
UPDATE users
SET verification_secret = $2, verification_sent_at = $3, updated_at = NOW()
WHERE id = $1 AND NOT email_verified
`

// SetVerificationSecret returns ErrNotFound when the account is missing or already verified.
func (r *SQLRepository) SetVerificationSecret(ctx context.Context, userID, secret string, sentAt time.Time) error {
	res, err := r.exec(ctx).ExecContext(ctx, QueryUserSetVerificationSecret, userID, secret, sentAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return fmt.Errorf("%w: verification secret collision", ErrQueryFailed)
		}
		return fmt.Errorf("%w: set verification secret of user %s: %v", ErrQueryFailed, userID, err)
	}
	return requireAffected(res)
}

const QueryUserConsumeVerificationSecret = `
UPDATE users
SET email_verified = TRUE, verification_secret = NULL, updated_at = NOW()
WHERE verification_secret = $1
AND NOT email_verified
AND ($2::timestamptz IS NULL OR verification_sent_at >= $2::timestamptz)
RETURNING id
`

func (r *SQLRepository) ConsumeVerificationSecret(ctx context.Context, secret string, issuedAfter *time.Time) (string, error) {
	var userID string
	row := r.exec(ctx).QueryRowContext(ctx, QueryUserConsumeVerificationSecret, secret, nullableTime(issuedAfter))
	if err := row.Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: consume verification secret: %v", ErrQueryFailed, err)
	}
	return userID, nil
}

const QueryUserSetPassword = "UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1"

func (r *SQLRepository) SetPassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.exec(ctx).ExecContext(ctx, QueryUserSetPassword, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("%w: set password of user %s: %v", ErrQueryFailed, userID, err)
	}
	return requireAffected(res)
}

const QueryUserPermissions = `
SELECT p.codename FROM permissions p
JOIN user_permissions up ON up.permission_id = p.id
WHERE up.user_id = $1
UNION
SELECT p.codename FROM permissions p
JOIN group_permissions gp ON gp.permission_id = p.id
JOIN user_groups ug ON ug.group_id = gp.group_id
WHERE ug.user_id = $1
ORDER BY 1
`

// Permissions returns the codenames granted directly or through groups.
func (r *SQLRepository) Permissions(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.exec(ctx).QueryContext(ctx, QueryUserPermissions, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list permissions of user %s: %v", ErrQueryFailed, userID, err)
	}
	defer rows.Close()

	var perms []string
	for rows.Next() {
		var codename string
		if err := rows.Scan(&codename); err != nil {
			return nil, fmt.Errorf("user repository: scan permission: %w", err)
		}
		perms = append(perms, codename)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user repository: iterate over permission rows: %w", err)
	}

	return perms, nil
}

const (
	QueryPermissionFind  = "SELECT id FROM permissions WHERE codename = $1"
	QueryPermissionGrant = `
INSERT INTO user_permissions (user_id, permission_id) VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
)

func (r *SQLRepository) GrantPermission(ctx context.Context, userID, codename string) error {
	exec := r.exec(ctx)

	var permID int64
	if err := exec.QueryRowContext(ctx, QueryPermissionFind, codename).Scan(&permID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", ErrUnknownPermission, codename)
		}
		return fmt.Errorf("%w: find permission %s: %v", ErrQueryFailed, codename, err)
	}

	if _, err := exec.ExecContext(ctx, QueryPermissionGrant, userID, permID); err != nil {
		return fmt.Errorf("%w: grant %s to user %s: %v", ErrQueryFailed, codename, userID, err)
	}

	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", ErrQueryFailed, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
