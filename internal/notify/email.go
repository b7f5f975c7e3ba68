package notify

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"daily-task-portal/internal/core/config"
)

// EmailNotifier sends HTML mail over SMTP.
type EmailNotifier struct {
	cfg    config.SMTP
	dialer *gomail.Dialer
	l      *zap.Logger
}

func NewEmailNotifier(cfg config.SMTP, l *zap.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		l:      l,
	}
}

// Configured reports whether enough SMTP settings are present to send.
func Configured(cfg config.SMTP) bool {
	return cfg.Host != "" && cfg.Port != 0 && cfg.From != ""
}

func (n *EmailNotifier) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	n.l.Info("email sent", zap.String("kind", string(msg.Kind)), zap.String("to", msg.To))
	return nil
}

// New picks SMTP delivery when configured and log-only delivery otherwise, wrapped in Async.
func New(cfg config.SMTP, l *zap.Logger) *Async {
	var next Notifier = LogNotifier{L: l}
	if Configured(cfg) {
		next = NewEmailNotifier(cfg, l)
	} else {
		l.Warn("smtp not configured, notifications are logged only")
	}
	return NewAsync(next, l, 0)
}
