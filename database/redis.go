package database

import (
	"context"

	"github.com/go-redis/redis/v8"
	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var RedisModule = fx.Options(
	fx.Provide(ProvideRedis),
)

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config, logger *logging.Service) *redis.Client {
	client := NewRedisClient(cfg.Redis)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// an unreachable redis is reported by readiness, not fatal at boot
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis ping failed", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client
}
