package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ferdiebergado/roomkit/internal/pkg/message"
	"github.com/ferdiebergado/roomkit/internal/pkg/security"
	"github.com/ferdiebergado/roomkit/internal/pkg/web"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

const LoginPath = "/auth/login"

type SessionResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (*user.User, *session.Session, error)
}

type CapabilityChecker interface {
	HasCapability(ctx context.Context, u *user.User, capability string) (bool, error)
}

var (
	_ SessionResolver   = (*Service)(nil)
	_ CapabilityChecker = (*Service)(nil)
)

// RequireSession loads the account of the session cookie into the request context.
// Anonymous clients are redirected to the login page.
func RequireSession(resolver SessionResolver, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := web.FindCookie(r.Cookies(), cookieName)
			if err != nil || cookie.Value == "" {
				web.RedirectToLogin(w, r, LoginPath)
				return
			}

			u, sess, err := resolver.ResolveSession(r.Context(), cookie.Value)
			if err != nil {
				if errors.Is(err, ErrNoSession) {
					http.SetCookie(w, security.ExpiredCookie(cookieName))
					web.RedirectToLogin(w, r, LoginPath)
					return
				}
				web.RespondInternalServerError(w, err)
				return
			}

			ctx := user.NewContextWithUser(r.Context(), u)
			ctx = session.NewContextWithSession(ctx, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCapability lets through accounts holding capability. It must run after RequireSession.
func RequireCapability(checker CapabilityChecker, capability string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := user.FromContext(r.Context())
			if err != nil {
				web.RedirectToLogin(w, r, LoginPath)
				return
			}

			ok, err := checker.HasCapability(r.Context(), u, capability)
			if err != nil {
				web.RespondInternalServerError(w, err)
				return
			}

			if !ok {
				web.RespondForbidden(w, fmt.Errorf("%w: missing %q", ErrForbidden, capability), message.Forbidden, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
