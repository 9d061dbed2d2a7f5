package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ferdiebergado/roomkit/internal/auth"
	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/middleware"
	"github.com/ferdiebergado/roomkit/internal/platform/router"
	"github.com/ferdiebergado/roomkit/internal/user"
)

type App struct {
	server          *http.Server
	provider        *Provider
	config          *config.Config
	router          router.Router
	middlewares     []router.Middleware
	stop            context.CancelFunc
	shutdownTimeout time.Duration
}

func (a *App) registerMiddlewares() {
	for _, mw := range a.middlewares {
		a.router.Use(mw)
	}
}

func (a *App) setupRoutes() {
	p := a.provider

	userModule := user.NewModule(p.DB)
	authModule := auth.NewModule(&auth.Provider{
		Cfg:      a.config,
		UserRepo: userModule.Repository(),
		Hasher:   p.Hasher,
		Signer:   p.Signer,
		Mailer:   p.Mailer,
		Sessions: p.Sessions,
		TxMgr:    p.TxMgr,
	})

	mountAuthRoutes(a.router, authModule.Handler(), authModule.Service(), p.Validator, a.config)
	mountUserRoutes(a.router, userModule.Handler(), authModule.Service(), p.Validator, a.config)
}

// Handler returns the fully wired http handler. Routes are registered on the first call.
func (a *App) Handler() http.Handler {
	if a.server.Handler == nil {
		a.registerMiddlewares()
		a.setupRoutes()
		a.server.Handler = middleware.CORS(a.config.CORS)(a.router)
	}
	return a.server.Handler
}

func (a *App) Start(ctx context.Context) error {
	a.Handler()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server listening...", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("listen and serve: %w", err)
			return
		}
		slog.Info("Server has stopped.")
		serverErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received.")
		return nil
	case err := <-serverErr:
		return err
	}
}

// Shutdown stops accepting requests, then waits for in-flight requests and pending emails.
func (a *App) Shutdown() error {
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown server: %w", err))
	}
	a.stop()

	if a.provider.Mailer != nil {
		if err := a.provider.Mailer.Close(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func New(provider *Provider, middlewares []router.Middleware) *App {
	serverCtx, stop := context.WithCancel(context.Background())
	cfg := provider.Cfg
	serverCfg := cfg.Server
	server := &http.Server{
		Addr: fmt.Sprintf(":%d", serverCfg.Port),
		BaseContext: func(_ net.Listener) context.Context {
			return serverCtx
		},
		ReadHeaderTimeout: serverCfg.ReadTimeout.Duration,
		ReadTimeout:       serverCfg.ReadTimeout.Duration,
		WriteTimeout:      serverCfg.WriteTimeout.Duration,
		IdleTimeout:       serverCfg.IdleTimeout.Duration,
	}

	return &App{
		config:          cfg,
		provider:        provider,
		router:          provider.Router,
		server:          server,
		middlewares:     middlewares,
		stop:            stop,
		shutdownTimeout: serverCfg.ShutdownTimeout.Duration,
	}
}
