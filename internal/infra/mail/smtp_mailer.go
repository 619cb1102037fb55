// Package mail dispatches account-lifecycle emails.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"

	"rolodex/config"
	"rolodex/internal/domain/service"
)

// smtpMailer sends confirmation mail through a plain SMTP relay.
type smtpMailer struct {
	addr    string
	auth    smtp.Auth
	from    string
	baseURL string
}

// NewSMTPMailer builds the SMTP-backed Mailer from config.
func NewSMTPMailer(cfg *config.MailConfig) service.Mailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &smtpMailer{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		auth:    auth,
		from:    cfg.From,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// SendConfirmation delivers the confirmation link. The token travels only in
// the message body, never in logs.
func (m *smtpMailer) SendConfirmation(ctx context.Context, email, username, token string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "confirmation dispatch canceled")
	}

	msg := buildConfirmationMessage(m.from, email, username, confirmationLink(m.baseURL, token))

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, msg); err != nil {
		return errors.Wrap(err, "failed to send confirmation email")
	}

	return nil
}

func confirmationLink(baseURL, token string) string {
	return fmt.Sprintf("%s/auth/confirm/%s", strings.TrimRight(baseURL, "/"), token)
}

func buildConfirmationMessage(from, to, username, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Confirm your email address\r\n")
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, "Hi %s,\r\n\r\n", username)
	b.WriteString("Please confirm your email address by opening the link below:\r\n\r\n")
	fmt.Fprintf(&b, "%s\r\n\r\n", link)
	b.WriteString("If you did not sign up, you can ignore this message.\r\n")

	return []byte(b.String())
}
