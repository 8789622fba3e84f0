// Copyright 2025 UO Student Workers Union
// Licensed under the EUPL-1.2

// Package email delivers outbound mail. Mailer speaks SMTP via go-mail;
// LogNotifier writes mail to the log for development setups without an
// SMTP server.
package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/uosw/memberhub/internal/config"
	"github.com/uosw/memberhub/internal/i18n"
	"github.com/wneessen/go-mail"
)

// Mailer sends localized union mail over SMTP.
type Mailer struct {
	cfg      *config.SMTPConfig
	tokenTTL time.Duration
}

// NewMailer creates a Mailer.
func NewMailer(cfg *config.SMTPConfig, tokenTTL time.Duration) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Mailer{cfg: cfg, tokenTTL: tokenTTL}, nil
}

// SendLoginLink mails the magic link to a member.
func (m *Mailer) SendLoginLink(ctx context.Context, toEmail, toName, loginURL string) error {
	subject := i18n.T(ctx, "login_email_subject")
	body := i18n.TData(ctx, "login_email_body", map[string]any{
		"Name":     toName,
		"LoginURL": loginURL,
		"Minutes":  int(m.tokenTTL.Minutes()),
	})

	return m.send(toEmail, subject, body)
}

// SendWelcome mails a membership confirmation to a newly registered member.
func (m *Mailer) SendWelcome(ctx context.Context, toEmail, toName string) error {
	subject := i18n.T(ctx, "welcome_email_subject")
	body := i18n.TData(ctx, "welcome_email_body", map[string]any{
		"Name": toName,
	})

	return m.send(toEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (m *Mailer) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if m.cfg.FromName != "" {
		if err := msg.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(m.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
	}

	// Implicit TLS (SSL) for port 465, STARTTLS for others
	if m.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		if m.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// LogNotifier logs outbound mail instead of sending it.
type LogNotifier struct{}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// SendLoginLink logs the login link.
func (n *LogNotifier) SendLoginLink(_ context.Context, toEmail, _, loginURL string) error {
	slog.Info("login_email", "to", toEmail, "url", loginURL)
	return nil
}

// SendWelcome logs the welcome mail.
func (n *LogNotifier) SendWelcome(_ context.Context, toEmail, toName string) error {
	slog.Info("welcome_email", "to", toEmail, "name", toName)
	return nil
}
