package auth

import (
	"github.com/ferdiebergado/roomkit/internal/config"
	"github.com/ferdiebergado/roomkit/internal/platform/db"
	"github.com/ferdiebergado/roomkit/internal/platform/email"
	"github.com/ferdiebergado/roomkit/internal/platform/hash"
	"github.com/ferdiebergado/roomkit/internal/platform/jwt"
	"github.com/ferdiebergado/roomkit/internal/platform/session"
	"github.com/ferdiebergado/roomkit/internal/user"
)

type Provider struct {
	Cfg      *config.Config
	UserRepo user.Repository
	Hasher   hash.Hasher
	Signer   jwt.Signer
	Mailer   email.Mailer
	Sessions session.Manager
	TxMgr    db.TxManager
}

type Module struct {
	svc     *Service
	handler *Handler
}

func (m *Module) Handler() *Handler {
	return m.handler
}

func (m *Module) Service() *Service {
	return m.svc
}

func NewModule(provider *Provider) *Module {
	svc := NewService(provider.UserRepo, &Providers{
		Hasher:   provider.Hasher,
		Signer:   provider.Signer,
		Mailer:   provider.Mailer,
		Sessions: provider.Sessions,
		TxMgr:    provider.TxMgr,
	}, provider.Cfg)
	handler := NewHandler(svc, provider.Cfg.Session)
	return &Module{
		svc:     svc,
		handler: handler,
	}
}
