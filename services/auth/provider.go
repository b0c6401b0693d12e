package auth

import (
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/mail"
	"github.com/skillorbit/skillorbit/services/metrics"
	"github.com/skillorbit/skillorbit/services/password"
	"github.com/skillorbit/skillorbit/services/verification"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Config     *config.Config
	Store      account.Store
	Hasher     *password.Hasher
	Issuer     *jwt.Issuer
	Tokens     *verification.Generator
	Dispatcher *mail.Dispatcher
	Logger     *logging.Service
	Metrics    *metrics.Service `optional:"true"`
}

func ProvideAuthService(p Params) *Service {
	return NewService(p.Config, p.Store, p.Hasher, p.Issuer, p.Tokens, p.Dispatcher, p.Logger.Named("auth"), p.Metrics)
}

var Module = fx.Options(
	fx.Provide(ProvideAuthService),
)
