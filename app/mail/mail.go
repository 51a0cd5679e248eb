// Package mail delivers the administrative notifications sent after a point
// of interest is deleted.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gomail/gomail"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-city-info-api/config"
)

// Service sends a plain-text notification.
type Service interface {
	Send(ctx context.Context, subject, message string) error
}

var (
	_ Service = (*LocalMailService)(nil)
	_ Service = (*SMTPMailService)(nil)
)

// New picks the implementation for the configured driver.
func New(cfg config.Config, logger *slog.Logger) (Service, error) {
	switch cfg.MailDriver() {
	case config.MailLocal:
		return NewLocalMailService(cfg.Mail, logger), nil
	case config.MailSMTP:
		return NewSMTPMailService(cfg.Mail, logger), nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", cfg.Mail.Driver)
	}
}

// LocalMailService only logs the mail. Used in development.
type LocalMailService struct {
	mailTo   string
	mailFrom string
	logger   *slog.Logger
}

func NewLocalMailService(cfg config.MailConfig, logger *slog.Logger) *LocalMailService {
	return &LocalMailService{mailTo: cfg.To, mailFrom: cfg.From, logger: logger}
}

func (s *LocalMailService) Send(ctx context.Context, subject, message string) error {
	s.logger.InfoContext(ctx, "Mail sent using LocalMailService",
		slog.String("notification_id", uuid.NewString()),
		slog.String("to", s.mailTo),
		slog.String("from", s.mailFrom),
		slog.String("subject", subject),
		slog.String("message", message),
	)
	return nil
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailService delivers through an SMTP relay.
type SMTPMailService struct {
	dialer   Dialer
	mailTo   string
	mailFrom string
	logger   *slog.Logger
}

func NewSMTPMailService(cfg config.MailConfig, logger *slog.Logger) *SMTPMailService {
	d := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return NewSMTPMailServiceWithDialer(d, cfg, logger)
}

func NewSMTPMailServiceWithDialer(d Dialer, cfg config.MailConfig, logger *slog.Logger) *SMTPMailService {
	return &SMTPMailService{dialer: d, mailTo: cfg.To, mailFrom: cfg.From, logger: logger}
}

// Send gives up when ctx is done; the dial keeps running in the background
// until the relay answers, its result is then discarded.
func (s *SMTPMailService) Send(ctx context.Context, subject, message string) error {
	id := uuid.NewString()

	m := gomail.NewMessage()
	m.SetHeader("From", s.mailFrom)
	m.SetHeader("To", s.mailTo)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", fmt.Sprintf("<%s@city-info-api>", id))
	m.SetBody("text/plain", message)

	done := make(chan error, 1)
	go func() { done <- s.dialer.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail %s: %w", id, err)
		}
		s.logger.InfoContext(ctx, "Mail sent", slog.String("notification_id", id), slog.String("subject", subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail %s not confirmed: %w", id, ctx.Err())
	}
}
