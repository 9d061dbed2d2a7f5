package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/goexpress"
	"github.com/ferdiebergado/gopherkit/env"
	"github.com/ferdiebergado/roomkit/internal/auth"
	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/middleware"
	"github.com/ferdiebergado/roomkit/internal/pkg/logging"
	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/ferdiebergado/roomkit/internal/platform/router"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

const (
	envFile = ".env"
	cfgFile = "config.json"
)

func loadConfig() (*config.Config, error) {
	if os.Getenv("ENV") != config.EnvProduction {
		if err := env.Load(envFile); err != nil {
			return nil, fmt.Errorf("load env: %w", err)
		}
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.SetupLogger(cfg.App.Env, cfg.App.LogLevel, os.Stderr)
	return cfg, nil
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	conn, err := db.NewPostgresDB(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return conn, nil
}

func Run(baseCtx context.Context) error {
	slog.Info("Initializing...")

	signalCtx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dbConn, err := openDB(signalCtx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	redisClient, err := session.NewRedisClient(signalCtx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	provider, err := newProvider(cfg, dbConn, redisClient)
	if err != nil {
		return err
	}

	middlewares := []router.Middleware{
		middleware.InjectWriter,
		goexpress.RecoverFromPanic,
		middleware.LogRequest,
		middleware.ContextGuard,
	}
	api := New(provider, middlewares)
	if err := api.Start(signalCtx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	return api.Shutdown()
}

// Provision creates a privileged account from the command line.
func Provision(ctx context.Context, params auth.ProvisionParams) (*user.User, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	dbConn, err := openDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer dbConn.Close()

	provider, err := newProvider(cfg, dbConn, nil)
	if err != nil {
		return nil, err
	}

	svc := auth.NewService(user.NewRepository(dbConn), &auth.Providers{
		Hasher: provider.Hasher,
		Signer: provider.Signer,
		Mailer: provider.Mailer,
		TxMgr:  provider.TxMgr,
	}, cfg)

	u, err := svc.Provision(ctx, params)
	if closeErr := provider.Mailer.Close(ctx); closeErr != nil {
		slog.Warn("pending emails were not sent", "reason", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("provision account: %w", err)
	}

	return u, nil
}
