package ratelimit

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewStore(cfg *config.RateLimitConfig, client *redis.Client) Store {
	if cfg.Store == "redis" && client != nil {
		return NewRedisStore(client, "skillorbit:")
	}
	return NewMemoryStore()
}

type StoreParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *logging.Service
	Redis     *redis.Client `optional:"true"`
}

func ProvideRateLimitStore(p StoreParams) Store {
	if p.Config.RateLimit.Store == "redis" && p.Redis == nil {
		p.Logger.Warn("redis rate limit store requested without a redis client, using memory")
	}

	store := NewStore(&p.Config.RateLimit, p.Redis)
	if mem, ok := store.(*MemoryStore); ok {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error {
				mem.Close()
				return nil
			},
		})
	}
	p.Logger.Info("rate limit store ready", zap.String("store", p.Config.RateLimit.Store))
	return store
}

func FromConfig(cfg *config.Config, store Store, logger *logging.Service) *Config {
	return &Config{
		Store:     store,
		Rate:      cfg.RateLimit.Rate,
		Period:    cfg.RateLimit.Period,
		CountMode: cfg.RateLimit.CountMode,
		Logger:    logger,
	}
}

var Module = fx.Options(
	fx.Provide(ProvideRateLimitStore),
)
