package mail

import (
	"context"
	"fmt"

	"github.com/skillorbit/skillorbit/services/logging"
	"go.uber.org/zap"
)

// LogSender renders messages and logs them instead of delivering; used when MAIL_ENABLED=false.
type LogSender struct {
	renderer *renderer
	logger   *logging.Service
}

func NewLogSender(templatesDir string, logger *logging.Service) (*LogSender, error) {
	r, err := newRenderer(templatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}
	return &LogSender{renderer: r, logger: logger}, nil
}

func (l *LogSender) SendTemplate(ctx context.Context, templateName, to, subject string, data TemplateData) error {
	if _, err := l.renderer.render(templateName, data); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	fields := []zap.Field{
		zap.String("template", templateName),
		zap.String("to", to),
		zap.String("subject", subject),
	}
	for _, key := range []string{"VerificationURL", "LoginURL"} {
		if v, ok := data[key].(string); ok {
			fields = append(fields, zap.String("link", v))
		}
	}

	l.logger.Info("mail delivery disabled, message logged", fields...)
	return nil
}
