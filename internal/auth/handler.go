package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/security"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

const maskChar = "*"

var errInvalidParams = errors.New("invalid request params")

type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*user.User, error)
	IssueVerification(ctx context.Context, u *user.User) error
	CompleteVerification(ctx context.Context, secret string) (VerificationOutcome, error)
	Login(ctx context.Context, email, password string) (*user.User, *session.Session, error)
	StartSession(ctx context.Context, u *user.User) (*session.Session, error)
	Logout(ctx context.Context, sessionID string) error
	ChangePassword(ctx context.Context, u *user.User, sessionID string, params ChangePasswordParams) error
	RequestPasswordReset(ctx context.Context, email string) error
	CheckPasswordReset(ctx context.Context, uid, token string) (*user.User, error)
	ConfirmPasswordReset(ctx context.Context, uid, token string, params ResetPasswordParams) error
}

type Handler struct {
	svc AuthService
	cfg *config.Session
}

func NewHandler(svc AuthService, cfg *config.Session) *Handler {
	return &Handler{
		svc: svc,
		cfg: cfg,
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	http.SetCookie(w, security.NewSecureCookie(h.cfg.CookieName, sess.ID, h.cfg.TTL.Duration))
}

type RegisterRequest struct {
	Email           string       `json:"email" validate:"required,email,max=254"`
	Password        string       `json:"password" validate:"required,min=8,max=128"`
	PasswordConfirm string       `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string       `json:"first_name,omitempty" validate:"max=150"`
	LastName        string       `json:"last_name,omitempty" validate:"max=150"`
	Country         user.Country `json:"country,omitempty" validate:"omitempty,oneof=FR BE DE EN ES IT LT PL UA"`
}

func (r *RegisterRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
		slog.String("password_confirm", maskChar),
	)
}

// Register creates the account and logs it in right away.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[RegisterRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, errInvalidParams, message.InvalidInput, nil)
		return
	}

	u, err := h.svc.Register(r.Context(), RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			web.RespondConflict(w, err, MsgUserExists, map[string]string{"email": MsgUserExists})
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	sess, err := h.svc.StartSession(r.Context(), u)
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}
	h.setSessionCookie(w, sess)

	msg := MsgRegisterSuccess
	web.RespondCreated(w, &msg, user.NewAccountData(u))
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
		slog.String("password", maskChar),
	)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[LoginRequest](r.Context())
	if err != nil {
		web.RespondUnauthorized(w, errInvalidParams, message.InvalidUser, nil)
		return
	}

	u, sess, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrUnknownIdentity) || errors.Is(err, ErrBadCredential) {
			web.RespondUnauthorized(w, err, message.InvalidUser, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}
	h.setSessionCookie(w, sess)

	msg := MsgLoggedIn
	web.RespondOK(w, &msg, user.NewAccountData(u))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cfg.CookieName); err == nil && cookie.Value != "" {
		if err := h.svc.Logout(r.Context(), cookie.Value); err != nil {
			web.RespondInternalServerError(w, err)
			return
		}
	}

	http.SetCookie(w, security.ExpiredCookie(h.cfg.CookieName))
	msg := MsgLoggedOut
	web.RespondOK[any](w, &msg, nil)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.svc.CompleteVerification(r.Context(), r.PathValue("secret"))
	if err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	if outcome == VerificationNotFound {
		web.RespondNotFound(w, errors.New("verification secret not found"), MsgVerifyNotFound, nil)
		return
	}

	msg := MsgVerifySuccess
	web.RespondOK[any](w, &msg, nil)
}

func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	u, err := user.FromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.LoginRequired, nil)
		return
	}

	if u.EmailVerified {
		msg := MsgAlreadyVerified
		web.RespondOK[any](w, &msg, nil)
		return
	}

	if err := h.svc.IssueVerification(r.Context(), u); err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	msg := MsgReVerifySuccess
	web.RespondOK[any](w, &msg, nil)
}

type ChangePasswordRequest struct {
	OldPassword        string `json:"old_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=8,max=128"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

func (r *ChangePasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("old_password", maskChar),
		slog.String("new_password", maskChar),
		slog.String("new_password_confirm", maskChar),
	)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	u, err := user.FromContext(ctx)
	if err != nil {
		web.RespondUnauthorized(w, err, message.LoginRequired, nil)
		return
	}

	req, err := web.ParamsFromContext[ChangePasswordRequest](ctx)
	if err != nil {
		web.RespondBadRequest(w, errInvalidParams, message.InvalidInput, nil)
		return
	}

	var sessionID string
	if sess, ok := session.FromContext(ctx); ok {
		sessionID = sess.ID
	}

	err = h.svc.ChangePassword(ctx, u, sessionID, ChangePasswordParams(req))
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredential):
			web.RespondUnauthorized(w, err, MsgWrongPassword, map[string]string{"old_password": MsgWrongPassword})
		case errors.Is(err, ErrMismatchedConfirmation):
			web.RespondUnprocessableEntity(w, err, MsgPasswordMismatch, map[string]string{"new_password_confirm": MsgPasswordMismatch})
		default:
			web.RespondInternalServerError(w, err)
		}
		return
	}

	msg := MsgPasswordChanged
	web.RespondOK[any](w, &msg, nil)
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", maskChar),
	)
}

// ForgotPassword answers the same way whether or not the email is known.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ForgotPasswordRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, errInvalidParams, message.InvalidInput, nil)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		web.RespondInternalServerError(w, err)
		return
	}

	msg := message.ResetSent
	web.RespondOK[any](w, &msg, nil)
}

func (h *Handler) CheckResetLink(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.CheckPasswordReset(r.Context(), r.PathValue("uid"), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, ErrInvalidOrExpiredToken) {
			web.RespondBadRequest(w, err, message.ResetInvalid, nil)
			return
		}
		web.RespondInternalServerError(w, err)
		return
	}

	msg := MsgResetValid
	web.RespondOK[any](w, &msg, nil)
}

type ResetPasswordRequest struct {
	NewPassword        string `json:"new_password" validate:"required,min=8,max=128"`
	NewPasswordConfirm string `json:"new_password_confirm" validate:"required"`
}

func (r *ResetPasswordRequest) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("new_password", maskChar),
		slog.String("new_password_confirm", maskChar),
	)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, err := web.ParamsFromContext[ResetPasswordRequest](r.Context())
	if err != nil {
		web.RespondBadRequest(w, errInvalidParams, message.InvalidInput, nil)
		return
	}

	err = h.svc.ConfirmPasswordReset(r.Context(), r.PathValue("uid"), r.PathValue("token"), ResetPasswordParams(req))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidOrExpiredToken):
			web.RespondBadRequest(w, err, message.ResetInvalid, nil)
		case errors.Is(err, ErrMismatchedConfirmation):
			web.RespondUnprocessableEntity(w, err, MsgPasswordMismatch, map[string]string{"new_password_confirm": MsgPasswordMismatch})
		default:
			web.RespondInternalServerError(w, err)
		}
		return
	}

	msg := message.ResetSuccess
	web.RespondOK[any](w, &msg, nil)
}

type HostResponse struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Host serves the area reserved to accounts holding the host capability.
func (h *Handler) Host(w http.ResponseWriter, r *http.Request) {
	u, err := user.FromContext(r.Context())
	if err != nil {
		web.RespondUnauthorized(w, err, message.LoginRequired, nil)
		return
	}

	msg := MsgHostWelcome
	web.RespondOK(w, &msg, &HostResponse{Username: u.Username, Name: u.FullName()})
}
