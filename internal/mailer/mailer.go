package mailer

import (
	"context"
	"fmt"

	"github.com/arleipolo/storefront-backend/pkg/config"
	"github.com/arleipolo/storefront-backend/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

// Message is a composed email ready for dispatch.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender is the mail dispatch boundary. Implementations log their own
// failures; callers decide whether the error matters.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers mail over SMTP.
type SMTPSender struct {
	cfg    config.MailConfig
	dialer dialer
	logg   *logger.Logger
}

// NewSMTPSender builds a sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig, logg *logger.Logger) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail server host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("mail from address is required")
	}
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logg:   logg,
	}, nil
}

// Send dispatches the message, logging and returning any transport failure.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "email send failed", err)
		}
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}
