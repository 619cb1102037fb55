package mail

import (
	"log/slog"

	"rolodex/config"
	"rolodex/internal/domain/service"
)

// New selects the Mailer implementation from config. Dev mode bypasses SMTP
// and logs the confirmation link instead.
func New(cfg *config.Config, logger *slog.Logger) service.Mailer {
	if cfg.Mail == nil || cfg.Mail.Dev {
		mailCfg := cfg.Mail
		if mailCfg == nil {
			mailCfg = &config.MailConfig{}
		}

		return NewDevMailer(mailCfg, logger)
	}

	return NewSMTPMailer(cfg.Mail)
}
