// Package notify delivers account emails. Delivery is best effort: callers log failures and move on.
package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"daily-task-portal/internal/core/metrics"
)

type Kind string

const (
	KindRegisterOTP Kind = "register_otp"
	KindLoginOTP    Kind = "login_otp"
	KindApproved    Kind = "approved"
	KindRejected    Kind = "rejected"
)

type Message struct {
	Kind    Kind
	To      string
	Subject string
	HTML    string
}

type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes messages to the log instead of sending them; used when SMTP is not configured.
type LogNotifier struct{ L *zap.Logger }

func (n LogNotifier) Send(_ context.Context, msg Message) error {
	n.L.Info("notification (log only)",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
	)
	n.L.Debug("notification body", zap.String("to", msg.To), zap.String("html", msg.HTML))
	return nil
}

// Async hands messages to background goroutines so the request never waits on SMTP.
type Async struct {
	next    Notifier
	l       *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Notifier, l *zap.Logger, timeout time.Duration) *Async {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Async{next: next, l: l, timeout: timeout}
}

// Send always returns nil; the outcome is logged and counted.
func (a *Async) Send(ctx context.Context, msg Message) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
		defer cancel()
		if err := a.next.Send(sendCtx, msg); err != nil {
			metrics.Notifications.WithLabelValues(string(msg.Kind), "error").Inc()
			a.l.Warn("notification failed", zap.String("kind", string(msg.Kind)), zap.String("to", msg.To), zap.Error(err))
			return
		}
		metrics.Notifications.WithLabelValues(string(msg.Kind), "sent").Inc()
	}()
	return nil
}

// Close waits for in-flight sends.
func (a *Async) Close() { a.wg.Wait() }
