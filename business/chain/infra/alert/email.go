// Package alert delivers operator alerts by email.
package alert

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/chain-explorer/business/chain/app"
	"github.com/fd1az/chain-explorer/internal/apperror"
	"github.com/fd1az/chain-explorer/internal/config"
	"github.com/fd1az/chain-explorer/internal/logger"
)

const tracerName = "github.com/fd1az/chain-explorer/business/chain/infra/alert"

// SMTP connection modes.
const (
	ModeSMTPS         = "smtps"
	ModeStartTLS      = "starttls"
	ModeOpportunistic = "opportunistic"
	ModePlaintext     = "plaintext"
)

// NewSink returns an EmailSink when cfg is complete and a NopSink otherwise.
func NewSink(cfg config.AlertConfig, log logger.LoggerInterface) (app.AlertSink, error) {
	if !cfg.Enabled() {
		log.Warn(context.Background(), "alert emails disabled",
			"reason", "smtp_host, from_email and admin_email must all be set")
		return NopSink{}, nil
	}
	return NewEmailSink(cfg, log)
}

// NopSink drops every alert.
type NopSink struct{}

// Send implements app.AlertSink.
func (NopSink) Send(context.Context, string, string) (bool, error) {
	return false, nil
}

// EmailSink sends alerts to the admin address over SMTP.
type EmailSink struct {
	cfg    config.AlertConfig
	opts   []mail.Option
	logger logger.LoggerInterface
	tracer trace.Tracer
}

// NewEmailSink validates cfg and builds the client options.
func NewEmailSink(cfg config.AlertConfig, log logger.LoggerInterface) (*EmailSink, error) {
	opts, err := clientOptions(cfg)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext("alert"), apperror.WithCause(err))
	}

	return &EmailSink{
		cfg:    cfg,
		opts:   opts,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}, nil
}

func clientOptions(cfg config.AlertConfig) ([]mail.Option, error) {
	opts := []mail.Option{mail.WithPort(cfg.SMTPPort)}

	switch cfg.SMTPMode {
	case ModeSMTPS, "":
		opts = append(opts, mail.WithSSL())
	case ModeStartTLS:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	case ModeOpportunistic:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	case ModePlaintext:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	default:
		return nil, fmt.Errorf("unknown smtp mode %q", cfg.SMTPMode)
	}

	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPass),
		)
	}

	return opts, nil
}

// Send implements app.AlertSink. A fresh connection is used per alert;
// alerts are rare.
func (s *EmailSink) Send(ctx context.Context, subject, body string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "alert.send",
		trace.WithAttributes(
			attribute.String("subject", subject),
			attribute.String("smtp.host", s.cfg.SMTPHost),
		),
	)
	defer span.End()

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return false, s.fail(span, "from address", err)
	}
	if err := msg.To(s.cfg.Admin); err != nil {
		return false, s.fail(span, "admin address", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(s.cfg.SMTPHost, s.opts...)
	if err != nil {
		return false, s.fail(span, "smtp client", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return false, s.fail(span, "smtp send", err)
	}

	s.logger.Info(ctx, "alert sent", "subject", subject, "to", s.cfg.Admin)
	return true, nil
}

func (s *EmailSink) fail(span trace.Span, what string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, what)
	return apperror.External(apperror.CodeAlertDeliveryFailed, what, err)
}
