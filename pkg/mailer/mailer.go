// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"strings"

	"github.com/ajdelacruz/saristore-backend/pkg/config"
	gomail "gopkg.in/gomail.v2"
)

// Sender delivers a single message. Services depend on this interface so
// tests can capture outgoing mail.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds an SMTP mailer from config.
func New(cfg config.MailConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.SMTPHost) == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if strings.TrimSpace(cfg.SenderEmail) == "" {
		return nil, fmt.Errorf("sender email is required")
	}

	from := cfg.SenderEmail
	if cfg.SenderName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.SenderName, cfg.SenderEmail)
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   from,
	}, nil
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("recipient is required")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// NoopMailer drops messages. Used in development when SMTP is not configured.
type NoopMailer struct{}

func (NoopMailer) Send(to, subject, htmlBody string) error { return nil }
