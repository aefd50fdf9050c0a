package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"
)

// SMTPConfig holds outgoing mail settings. An empty Host switches the mailer
// into log-only mode, which is what dev and test environments run with.
type SMTPConfig struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
}

// Mailer processes mail:send tasks.
type Mailer struct {
	cfg    SMTPConfig
	logger *slog.Logger
}

func NewMailer(cfg SMTPConfig, logger *slog.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// HandleSendMail is the asynq handler for TaskTypeSendMail.
func (m *Mailer) HandleSendMail(ctx context.Context, t *asynq.Task) error {
	var payload SendMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if m.cfg.Host == "" {
		m.logger.InfoContext(ctx, "mail (log-only)",
			"to", payload.To, "subject", payload.Subject)
		return nil
	}
	return m.send(payload)
}

func (m *Mailer) send(payload SendMailPayload) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.cfg.From, payload.To, payload.Subject, payload.Body)
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{payload.To}, []byte(msg)); err != nil {
		return fmt.Errorf("jobs: send mail: %w", err)
	}
	return nil
}
