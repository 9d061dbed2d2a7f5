package app

import (
	"github.com/ferdiebergado/roomkit/internal/auth"
	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/middleware"
	"github.com/ferdiebergado/roomkit/internal/platform/router"
	"github.com/ferdiebergado/roomkit/internal/platform/validation"
	"github.com/ferdiebergado/roomkit/internal/user"
)

const (
	capabilityHost      = "host"
	capabilityViewUsers = "view_users"
)

// payload runs before, then decodes and validates a JSON body of type T.
func payload[T any](maxBodySize int64, validator validation.Validator, before ...router.Middleware) []router.Middleware {
	return append(before,
		middleware.CheckContentType,
		middleware.DecodePayload[T](maxBodySize),
		middleware.ValidateInput[T](validator),
	)
}

func mountAuthRoutes(r router.Router, handler *auth.Handler, svc *auth.Service, validator validation.Validator, cfg *config.Config) {
	maxBodySize := cfg.Server.MaxBodyBytes
	requireSession := auth.RequireSession(svc, cfg.Session.CookieName)
	throttle := middleware.RateLimit(cfg.RateLimit)

	r.Group("/auth", func(gr router.Router) {
		gr.Post("/register", handler.Register,
			payload[auth.RegisterRequest](maxBodySize, validator, throttle)...)
		gr.Post("/login", handler.Login,
			payload[auth.LoginRequest](maxBodySize, validator, throttle)...)
		gr.Post("/logout", handler.Logout)
		gr.Get("/verify/{secret}", handler.VerifyEmail)
		gr.Post("/verify", handler.ResendVerification, throttle, requireSession)
		gr.Put("/password", handler.ChangePassword,
			payload[auth.ChangePasswordRequest](maxBodySize, validator, requireSession)...)
		gr.Post("/forgot", handler.ForgotPassword,
			payload[auth.ForgotPasswordRequest](maxBodySize, validator, throttle)...)
		gr.Get("/reset/{uid}/{token}", handler.CheckResetLink)
		gr.Post("/reset/{uid}/{token}", handler.ResetPassword,
			payload[auth.ResetPasswordRequest](maxBodySize, validator, throttle)...)
	})

	r.Get("/host", handler.Host, requireSession, auth.RequireCapability(svc, capabilityHost))
}

func mountUserRoutes(r router.Router, handler *user.Handler, svc *auth.Service, validator validation.Validator, cfg *config.Config) {
	maxBodySize := cfg.Server.MaxBodyBytes
	requireSession := auth.RequireSession(svc, cfg.Session.CookieName)

	r.Get("/users", handler.List, requireSession, auth.RequireCapability(svc, capabilityViewUsers))
	r.Group("/users", func(gr router.Router) {
		gr.Get("/me", handler.Me)
		gr.Put("/me", handler.UpdateMe, payload[user.UpdateProfileRequest](maxBodySize, validator)...)
		gr.Get("/{username}", handler.Show)
	}, requireSession)
}
