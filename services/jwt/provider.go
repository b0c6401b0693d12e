package jwt

import (
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/fx"
)

func NewJWTIssuer(cfg *config.Config, logger *logging.Service) *Issuer {
	return NewIssuer(cfg.JWT, logger.Named("jwt"))
}

var Module = fx.Options(
	fx.Provide(NewJWTIssuer),
)
