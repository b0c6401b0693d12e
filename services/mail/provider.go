package mail

import (
	"context"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/skillorbit/skillorbit/services/metrics"
	"go.uber.org/fx"
)

type DispatcherParams struct {
	fx.In

	Config  *config.Config
	Logger  *logging.Service
	Metrics *metrics.Service `optional:"true"`
}

func ProvideSender(cfg *config.Config, logger *logging.Service) (Sender, error) {
	logger = logger.Named("mail")
	if !cfg.Mail.Enabled {
		return NewLogSender(cfg.Mail.TemplatesDir, logger)
	}
	return NewService(&cfg.Mail, logger)
}

func ProvideDispatcher(lc fx.Lifecycle, p DispatcherParams, sender Sender) *Dispatcher {
	d := NewDispatcher(sender, p.Config.Mail.SendTimeout, p.Logger.Named("mail"), p.Metrics)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return d.Shutdown(ctx)
		},
	})
	return d
}

var Module = fx.Options(
	fx.Provide(ProvideSender, ProvideDispatcher),
	// Built eagerly so its stop hook runs after the HTTP server has drained.
	fx.Invoke(func(*Dispatcher) {}),
)
