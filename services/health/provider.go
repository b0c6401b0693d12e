package health

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB      `optional:"true"`
	Redis *redis.Client `optional:"true"`
}

var Module = fx.Options(
	fx.Provide(func(p Params) *Checker {
		return NewChecker(p.DB, p.Redis)
	}),
)
