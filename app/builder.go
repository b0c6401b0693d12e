package app

import (
	"errors"
	"fmt"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/database"
	"github.com/skillorbit/skillorbit/handlers"
	"github.com/skillorbit/skillorbit/middleware/ratelimit"
	"github.com/skillorbit/skillorbit/server"
	"github.com/skillorbit/skillorbit/services/account"
	"github.com/skillorbit/skillorbit/services/auth"
	"github.com/skillorbit/skillorbit/services/health"
	"github.com/skillorbit/skillorbit/services/jwt"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/mail"
	"github.com/skillorbit/skillorbit/services/metrics"
	"github.com/skillorbit/skillorbit/services/password"
	"github.com/skillorbit/skillorbit/services/verification"
	"github.com/skillorbit/skillorbit/session"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type AppBuilder struct {
	config    *config.Config
	logger    *logging.Service
	models    []any
	fxOptions []fx.Option
	errors    []error
}

func NewApp() *AppBuilder {
	return &AppBuilder{}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.addError("config cannot be nil")
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.addError(fmt.Sprintf("failed to load config: %v", err))
		return b
	}
	b.config = cfg
	return b
}

// WithLogger replaces the logger built from config.
func (b *AppBuilder) WithLogger(logger *logging.Service) *AppBuilder {
	b.logger = logger
	return b
}

// WithModels migrates extra models alongside accounts.
func (b *AppBuilder) WithModels(models ...any) *AppBuilder {
	b.models = append(b.models, models...)
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if b.config == nil && len(b.errors) == 0 {
		b.WithAutoConfig()
	}
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("configuration errors: %w", errors.Join(b.errors...))
	}

	app := &App{config: b.config}

	options := b.buildFxOptions()
	options = append(options, fx.Invoke(func(srv *server.Server, db *gorm.DB, logger *logging.Service) {
		app.server = srv
		app.db = db
		app.logger = logger
	}))

	app.fx = fx.New(options...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to assemble application: %w", err)
	}
	return app, nil
}

func (b *AppBuilder) addError(msg string) {
	b.errors = append(b.errors, errors.New(msg))
}

func (b *AppBuilder) buildFxOptions() []fx.Option {
	models := append([]any{&account.Account{}}, b.models...)

	loggerOption := logging.Module
	if b.logger != nil {
		loggerOption = fx.Supply(b.logger)
	}

	options := []fx.Option{
		fx.Supply(b.config),
		fx.Supply(database.WithModels(models...)),
		fx.NopLogger,
		loggerOption,

		database.Module,
		metrics.Module,
		account.Module,
		password.Module,
		verification.Module,
		jwt.Module,
		mail.Module,
		session.Module,
		auth.Module,
		health.Module,
		ratelimit.Module,
		server.Module,
		handlers.Module,
	}

	if b.config.RateLimit.Store == "redis" {
		options = append(options, database.RedisModule)
	}

	return append(options, b.fxOptions...)
}
