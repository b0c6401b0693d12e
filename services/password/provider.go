package password

import (
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewHasherFromConfig),
)

func NewHasherFromConfig(cfg *config.Config, logger *logging.Service) *Hasher {
	return NewHasher(cfg.Auth.BcryptCost, PolicyFromConfig(cfg.Auth), logger)
}
