package mail

import (
	"context"
	"log/slog"

	"rolodex/config"
	"rolodex/internal/domain/service"
)

// devMailer logs confirmation links instead of sending them. Useful for local
// development where no SMTP relay is available.
type devMailer struct {
	logger  *slog.Logger
	baseURL string
}

// NewDevMailer returns a Mailer that only writes to the log.
func NewDevMailer(cfg *config.MailConfig, logger *slog.Logger) service.Mailer {
	return &devMailer{logger: logger, baseURL: cfg.BaseURL}
}

func (m *devMailer) SendConfirmation(_ context.Context, email, username, token string) error {
	m.logger.Info("confirmation email (dev mode, not sent)",
		slog.String("email", email),
		slog.String("username", username),
		slog.String("link", confirmationLink(m.baseURL, token)),
	)

	return nil
}
