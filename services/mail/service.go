package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers a rendered template to one recipient.
type Sender interface {
	SendTemplate(ctx context.Context, templateName, to, subject string, data TemplateData) error
}

type Client interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Service struct {
	config   *config.MailConfig
	client   Client
	renderer *renderer
	logger   *logging.Service
}

func NewService(cfg *config.MailConfig, logger *logging.Service) (*Service, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	logger.Info("initializing mail service",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption),
		zap.String("from_address", cfg.FromAddress))

	client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		logger.Error("failed to create mail client", zap.Error(err), zap.String("host", cfg.Host))
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return NewServiceWithClient(cfg, logger, client)
}

func NewServiceWithClient(cfg *config.MailConfig, logger *logging.Service, client Client) (*Service, error) {
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	r, err := newRenderer(cfg.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	return &Service{
		config:   cfg,
		client:   client,
		renderer: r,
		logger:   logger,
	}, nil
}

func clientOptions(cfg *config.MailConfig) []mail.Option {
	opts := []mail.Option{mail.WithPort(cfg.Port)}

	switch cfg.Encryption {
	case "ssl":
		opts = append(opts, mail.WithSSL())
	case "none":
		opts = append(opts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}

func (s *Service) NewMessage(to, subject string) (*mail.Msg, error) {
	message := mail.NewMsg()

	var err error
	if s.config.FromName != "" {
		err = message.FromFormat(s.config.FromName, s.config.FromAddress)
	} else {
		err = message.From(s.config.FromAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}

	if err := message.To(to); err != nil {
		return nil, fmt.Errorf("failed to set TO address: %w", err)
	}
	message.Subject(subject)
	return message, nil
}

func (s *Service) SendTemplate(ctx context.Context, templateName, to, subject string, data TemplateData) error {
	message, err := s.NewMessage(to, subject)
	if err != nil {
		return err
	}

	body, err := s.renderer.render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	switch {
	case body.HTML != "" && body.Text != "":
		message.SetBodyString(mail.TypeTextHTML, body.HTML)
		message.AddAlternativeString(mail.TypeTextPlain, body.Text)
	case body.HTML != "":
		message.SetBodyString(mail.TypeTextHTML, body.HTML)
	default:
		message.SetBodyString(mail.TypeTextPlain, body.Text)
	}

	start := time.Now()
	if err := s.client.DialAndSendWithContext(ctx, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent",
		zap.String("template", templateName),
		zap.Duration("send_duration", time.Since(start)))
	return nil
}
