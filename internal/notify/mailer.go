package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"homecare/pkg/config"
	"homecare/pkg/logger"
)

type Mailer interface {
	Send(ctx context.Context, event Event) error
}

// SMTPMailer delivers notification events over plain SMTP with optional AUTH.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg config.SMTP) *SMTPMailer {
	m := &SMTPMailer{
		addr: cfg.Host + ":" + cfg.Port,
		from: cfg.From,
	}
	if cfg.User != "" {
		m.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}
	return m
}

func (m *SMTPMailer) Send(_ context.Context, event Event) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", event.Recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", event.Subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(event.Body)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{event.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", event.Recipient, err)
	}
	return nil
}

// ConsoleMailer logs notifications instead of sending them. Used when no
// SMTP host is configured, typically in local development.
type ConsoleMailer struct {
	log *logger.Logger
}

func NewConsoleMailer(log *logger.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(_ context.Context, event Event) error {
	m.log.Info("Notification (console delivery)",
		"recipient", event.Recipient,
		"subject", event.Subject,
		"body", event.Body,
	)
	return nil
}
