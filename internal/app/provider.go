package app

import (
	"database/sql"
	"fmt"

	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/ferdiebergado/roomkit/internal/platform/email"
	"github.com/ferdiebergado/roomkit/internal/platform/hash"
	"github.com/ferdiebergado/roomkit/internal/platform/jwt"
	"github.com/ferdiebergado/roomkit/internal/platform/router"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/platform/validation"
	"github.com/redis/go-redis/v9"
)

type Provider struct {
	Cfg       *config.Config
	DB        *sql.DB
	Signer    jwt.Signer
	Mailer    *email.AsyncMailer
	Validator validation.Validator
	Hasher    hash.Hasher
	Router    router.Router
	TxMgr     db.TxManager
	Sessions  session.Manager
}

// newProvider wires the infrastructure shared by the modules. redisClient may be nil
// for commands that never open sessions.
func newProvider(cfg *config.Config, dbConn *sql.DB, redisClient *redis.Client) (*Provider, error) {
	securityKey := cfg.App.Key

	smtpMailer, err := email.NewSMTPMailer(cfg.SMTP, cfg.Email)
	if err != nil {
		return nil, fmt.Errorf("new smtp mailer: %w", err)
	}

	provider := &Provider{
		Cfg:       cfg,
		DB:        dbConn,
		Signer:    jwt.NewGolangJWTSigner(cfg.JWT, securityKey),
		Mailer:    email.NewAsyncMailer(smtpMailer),
		Hasher:    hash.NewArgon2Hasher(cfg.Argon2, securityKey),
		Router:    router.NewGoexpressRouter(),
		Validator: validation.NewGoPlaygroundValidator(),
		TxMgr:     db.NewSQLTxManager(dbConn),
	}

	if redisClient != nil {
		provider.Sessions = session.NewRedisManager(redisClient, cfg.Session)
	}

	return provider, nil
}
