package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/pkg/security"
	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/ferdiebergado/roomkit/internal/platform/email"
	"github.com/ferdiebergado/roomkit/internal/platform/hash"
	"github.com/ferdiebergado/roomkit/internal/platform/jwt"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

var _ AuthService = (*Service)(nil)

// VerificationOutcome is the result of presenting a verification secret.
type VerificationOutcome int

const (
	VerificationNotFound VerificationOutcome = iota
	VerificationVerified
)

func (o VerificationOutcome) String() string {
	if o == VerificationVerified {
		return "verified"
	}
	return "not_found"
}

type Providers struct {
	Hasher   hash.Hasher
	Signer   jwt.Signer
	Mailer   email.Mailer
	Sessions session.Manager
	TxMgr    db.TxManager
}

// Service owns the account lifecycle: registration, email verification,
// credentials, password resets, sessions and capabilities.
type Service struct {
	repo     user.Repository
	hasher   hash.Hasher
	signer   jwt.Signer
	mailer   email.Mailer
	sessions session.Manager
	txMgr    db.TxManager
	cfg      *config.Config
	now      func() time.Time
}

func NewService(repo user.Repository, providers *Providers, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		hasher:   providers.Hasher,
		signer:   providers.Signer,
		mailer:   providers.Mailer,
		sessions: providers.Sessions,
		txMgr:    providers.TxMgr,
		cfg:      cfg,
		now:      time.Now,
	}
}

type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Country   user.Country
}

func (p *RegisterParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

// Register creates an unverified account and sends it a verification link.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*user.User, error) {
	email := user.NormalizeEmail(params.Email)
	if err := s.ensureAvailable(ctx, email); err != nil {
		return nil, err
	}

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf(MsgFmtHashPassword, err)
	}

	country := params.Country
	if country == "" {
		country = user.DefaultCountry
	}

	u, err := s.repo.Create(ctx, user.CreateParams{
		Email:        email,
		PasswordHash: passwordHash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Country:      country,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.IssueVerification(ctx, u); err != nil {
		slog.Error("account created without a verification secret", "user_id", u.ID, "reason", err)
	}

	return u, nil
}

func (s *Service) ensureAvailable(ctx context.Context, email string) error {
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return ErrConflict
	}
	if !errors.Is(err, user.ErrNotFound) {
		return fmt.Errorf(MsgFmtFindUserByEmail, err)
	}
	return nil
}

// IssueVerification replaces the pending verification secret of u and mails the link.
// Verified accounts are left untouched.
func (s *Service) IssueVerification(ctx context.Context, u *user.User) error {
	if u.EmailVerified {
		return nil
	}

	secret, err := security.GenerateRandomHex(s.cfg.Verification.SecretLength)
	if err != nil {
		return fmt.Errorf("generate verification secret: %w", err)
	}

	sentAt := s.now()
	if err := s.repo.SetVerificationSecret(ctx, u.ID, secret, sentAt); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			slog.Info("account verified meanwhile, secret not issued", "user_id", u.ID)
			return nil
		}
		return fmt.Errorf("store verification secret: %w", err)
	}

	u.VerificationSecret = secret
	u.VerificationSentAt = &sentAt

	data := map[string]string{
		"Title":  "Email verification",
		"Header": subjectVerification,
		"Link":   s.cfg.App.URL + pathVerify + secret,
	}
	if err := s.mailer.SendHTML([]string{u.Email}, subjectVerification, templateVerification, data); err != nil {
		slog.Error("failed to send verification email", "user_id", u.ID, "reason", err)
	}

	return nil
}

// CompleteVerification consumes secret. Unknown, used and expired secrets all
// yield VerificationNotFound.
func (s *Service) CompleteVerification(ctx context.Context, secret string) (VerificationOutcome, error) {
	if secret == "" {
		return VerificationNotFound, nil
	}

	var issuedAfter *time.Time
	if ttl := s.cfg.Verification.TTL.Duration; ttl > 0 {
		cutoff := s.now().Add(-ttl)
		issuedAfter = &cutoff
	}

	userID, err := s.repo.ConsumeVerificationSecret(ctx, secret, issuedAfter)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return VerificationNotFound, nil
		}
		return VerificationNotFound, fmt.Errorf("consume verification secret: %w", err)
	}

	slog.Info("email verified", "user_id", userID)
	return VerificationVerified, nil
}

// Authenticate checks a credential pair. Verification is not required.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, fmt.Errorf(MsgFmtFindUserByEmail, err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf(MsgFmtVerifyPassword, err)
	}

	if !ok || !u.IsActive {
		return nil, ErrBadCredential
	}

	return u, nil
}

// Login authenticates and opens a session for the account.
func (s *Service) Login(ctx context.Context, email, password string) (*user.User, *session.Session, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.StartSession(ctx, u)
	if err != nil {
		return nil, nil, err
	}

	return u, sess, nil
}

// StartSession opens a session bound to the current credential of u.
func (s *Service) StartSession(ctx context.Context, u *user.User) (*session.Session, error) {
	sess, err := s.sessions.Establish(ctx, u.ID, s.credentialFingerprint(u.PasswordHash))
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Destroy(ctx, sessionID); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// ResolveSession returns the account behind sessionID. Sessions of inactive
// accounts or of a replaced credential are rejected with ErrNoSession.
func (s *Service) ResolveSession(ctx context.Context, sessionID string) (*user.User, *session.Session, error) {
	sess, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf("find session: %w", err)
	}

	u, err := s.repo.Find(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, nil, ErrNoSession
		}
		return nil, nil, fmt.Errorf(MsgFmtFindUser, err)
	}

	if !u.IsActive || !security.ConstantTimeCompareStr(sess.Fingerprint, s.credentialFingerprint(u.PasswordHash)) {
		if err := s.sessions.Destroy(ctx, sess.ID); err != nil && !errors.Is(err, session.ErrNotFound) {
			slog.Warn("failed to destroy stale session", "reason", err)
		}
		return nil, nil, ErrNoSession
	}

	return u, sess, nil
}

type ChangePasswordParams struct {
	OldPassword        string
	NewPassword        string
	NewPasswordConfirm string
}

func (p *ChangePasswordParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("old_password", maskChar),
		slog.String("new_password", maskChar),
		slog.String("new_password_confirm", maskChar),
	)
}

// ChangePassword replaces the credential of u and keeps sessionID valid.
// Every other session of the account stops resolving.
func (s *Service) ChangePassword(ctx context.Context, u *user.User, sessionID string, params ChangePasswordParams) error {
	ok, err := s.hasher.Verify(params.OldPassword, u.PasswordHash)
	if err != nil {
		return fmt.Errorf(MsgFmtVerifyPassword, err)
	}
	if !ok {
		return ErrBadCredential
	}

	if params.NewPassword != params.NewPasswordConfirm {
		return ErrMismatchedConfirmation
	}

	newHash, err := s.replacePassword(ctx, u.ID, params.NewPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = newHash

	if sessionID != "" {
		if err := s.sessions.Rebind(ctx, sessionID, s.credentialFingerprint(newHash)); err != nil {
			slog.Warn("failed to rebind session after password change", "user_id", u.ID, "reason", err)
		}
	}

	return nil
}

func (s *Service) replacePassword(ctx context.Context, userID, password string) (string, error) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf(MsgFmtHashPassword, err)
	}

	if err := s.repo.SetPassword(ctx, userID, newHash); err != nil {
		return "", fmt.Errorf(MsgFmtStorePassword, err)
	}

	return newHash, nil
}

// RequestPasswordReset mails a reset link when email belongs to an active account.
// Unknown addresses succeed silently.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.repo.FindByEmail(ctx, user.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			slog.Info("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf(MsgFmtFindUserByEmail, err)
	}

	if !u.IsActive {
		slog.Info("password reset requested for inactive account", "user_id", u.ID)
		return nil
	}

	claims := &jwt.Claims{
		Subject:     u.ID,
		Audience:    s.resetAudience(),
		Fingerprint: s.credentialFingerprint(u.PasswordHash),
	}
	token, err := s.signer.Sign(claims, s.cfg.Reset.TTL.Duration)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	data := map[string]string{
		"Title":  "Password reset",
		"Header": subjectResetPassword,
		"Link":   s.resetAudience() + "/" + EncodeUID(u.ID) + "/" + token,
	}
	if err := s.mailer.SendHTML([]string{u.Email}, subjectResetPassword, templateResetPassword, data); err != nil {
		slog.Error("failed to send password reset email", "user_id", u.ID, "reason", err)
	}

	return nil
}

// CheckPasswordReset validates a reset link without consuming it.
func (s *Service) CheckPasswordReset(ctx context.Context, uid, token string) (*user.User, error) {
	userID, err := DecodeUID(uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, err)
	}

	u, err := s.repo.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf(MsgFmtFindUser, err)
	}

	if !u.IsActive {
		return nil, ErrInvalidOrExpiredToken
	}

	claims, err := s.signer.Verify(token, s.resetAudience())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOrExpiredToken, err)
	}

	if claims.Subject != u.ID {
		return nil, ErrInvalidOrExpiredToken
	}

	if !security.ConstantTimeCompareStr(claims.Fingerprint, s.credentialFingerprint(u.PasswordHash)) {
		return nil, ErrInvalidOrExpiredToken
	}

	return u, nil
}

type ResetPasswordParams struct {
	NewPassword        string
	NewPasswordConfirm string
}

func (p *ResetPasswordParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("new_password", maskChar),
		slog.String("new_password_confirm", maskChar),
	)
}

// ConfirmPasswordReset replaces the credential of the account behind a valid
// reset link. The new credential invalidates the link.
func (s *Service) ConfirmPasswordReset(ctx context.Context, uid, token string, params ResetPasswordParams) error {
	u, err := s.CheckPasswordReset(ctx, uid, token)
	if err != nil {
		return err
	}

	if params.NewPassword != params.NewPasswordConfirm {
		return ErrMismatchedConfirmation
	}

	if _, err := s.replacePassword(ctx, u.ID, params.NewPassword); err != nil {
		return err
	}

	slog.Info("password reset", "user_id", u.ID)
	return nil
}

type ProvisionParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Verified    bool
	Staff       bool
	Superuser   bool
	Permissions []string
}

func (p *ProvisionParams) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", p.Email),
		slog.String("password", maskChar),
		slog.Bool("verified", p.Verified),
		slog.Bool("staff", p.Staff),
		slog.Bool("superuser", p.Superuser),
		slog.Any("permissions", p.Permissions),
	)
}

// Provision creates an account with elevated attributes and grants in one transaction.
// Unverified accounts are sent a verification link once the transaction commits.
func (s *Service) Provision(ctx context.Context, params ProvisionParams) (*user.User, error) {
	email := user.NormalizeEmail(params.Email)

	passwordHash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf(MsgFmtHashPassword, err)
	}

	var u *user.User
	err = s.txMgr.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureAvailable(txCtx, email); err != nil {
			return err
		}

		created, err := s.repo.Create(txCtx, user.CreateParams{
			Email:         email,
			PasswordHash:  passwordHash,
			FirstName:     params.FirstName,
			LastName:      params.LastName,
			Country:       user.DefaultCountry,
			EmailVerified: params.Verified,
			IsActive:      true,
			IsStaff:       params.Staff,
			IsSuperuser:   params.Superuser,
		})
		if err != nil {
			if errors.Is(err, user.ErrDuplicateEmail) {
				return ErrConflict
			}
			return fmt.Errorf("create user: %w", err)
		}

		for _, codename := range params.Permissions {
			if err := s.repo.GrantPermission(txCtx, created.ID, codename); err != nil {
				return fmt.Errorf("grant permission %q: %w", codename, err)
			}
		}

		u = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.IssueVerification(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// HasCapability reports whether u holds the named permission.
func (s *Service) HasCapability(ctx context.Context, u *user.User, capability string) (bool, error) {
	if !u.IsActive {
		return false, nil
	}
	if u.IsSuperuser {
		return true, nil
	}

	perms, err := s.repo.Permissions(ctx, u.ID)
	if err != nil {
		return false, fmt.Errorf("list permissions: %w", err)
	}

	return slices.Contains(perms, capability), nil
}

func (s *Service) credentialFingerprint(passwordHash string) string {
	return security.Fingerprint(s.cfg.App.Key, passwordHash)
}

func (s *Service) resetAudience() string {
	return s.cfg.App.URL + pathReset
}

// EncodeUID turns an account id into the identity segment of a reset link.
func EncodeUID(userID string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

func DecodeUID(uid string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", fmt.Errorf("decode uid: %w", err)
	}
	return string(b), nil
}
