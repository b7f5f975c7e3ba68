package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"daily-task-portal/internal/core/metrics"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/pkg/utils"
)

const otpDigits = 6

// Clock is injected wherever wall time gates behaviour.
type Clock func() time.Time

type OTPService struct {
	store    domain.OTPStore
	notifier notify.Notifier
	l        *zap.Logger
	ttl      time.Duration
	now      Clock
}

func NewOTPService(store domain.OTPStore, notifier notify.Notifier, l *zap.Logger, ttl time.Duration, now Clock) *OTPService {
	if now == nil {
		now = time.Now
	}
	return &OTPService{store: store, notifier: notifier, l: l, ttl: ttl, now: now}
}

// Issue replaces any live challenge for email and mails the new code.
// A failed send does not undo the challenge.
func (s *OTPService) Issue(ctx context.Context, email string, kind notify.Kind) error {
	email = domain.NormalizeEmail(email)
	code, err := utils.NumericCode(otpDigits)
	if err != nil {
		return domain.Internal("generate otp failed", err)
	}
	hash, err := utils.HashPassword(code)
	if err != nil {
		return domain.Internal("hash otp failed", err)
	}
	ch := &domain.OTPChallenge{Email: email, CodeHash: hash, IssuedAt: s.now()}
	if err := s.store.Put(ctx, ch, s.ttl); err != nil {
		return domain.Internal("store otp failed", err)
	}
	metrics.OTPIssued.Inc()

	if err := s.notifier.Send(ctx, notify.OTPMessage(kind, email, code, s.ttl)); err != nil {
		s.l.Warn("otp notification failed", zap.String("email", email), zap.Error(err))
	}
	return nil
}

// Verify consumes the challenge on success. It fails with KindNotFound when no live
// challenge exists and KindMismatch when the code is wrong; a mismatch keeps the challenge.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	email = domain.NormalizeEmail(email)
	ch, err := s.store.Get(ctx, email)
	if err != nil {
		return domain.Internal("load otp failed", err)
	}
	if ch == nil {
		metrics.OTPVerifications.WithLabelValues("not_found").Inc()
		return domain.E(domain.KindNotFound, "otp not found")
	}
	if ch.ExpiredAt(s.now(), s.ttl) {
		if err := s.store.Delete(ctx, email); err != nil {
			s.l.Warn("drop expired otp failed", zap.String("email", email), zap.Error(err))
		}
		metrics.OTPVerifications.WithLabelValues("expired").Inc()
		return domain.E(domain.KindNotFound, "otp expired")
	}
	if !utils.CheckPassword(code, ch.CodeHash) {
		metrics.OTPVerifications.WithLabelValues("mismatch").Inc()
		return domain.E(domain.KindMismatch, "otp mismatch")
	}
	ok, err := s.store.DeleteIfMatch(ctx, email, ch.CodeHash)
	if err != nil {
		return domain.Internal("consume otp failed", err)
	}
	if !ok {
		// consumed or replaced by a concurrent request
		metrics.OTPVerifications.WithLabelValues("not_found").Inc()
		return domain.E(domain.KindNotFound, "otp not found")
	}
	metrics.OTPVerifications.WithLabelValues("ok").Inc()
	return nil
}

// verifyAs maps OTP failures onto the caller-facing kinds used by register and login.
func (s *OTPService) verifyAs(ctx context.Context, email, code string, mismatch domain.Kind) error {
	err := s.Verify(ctx, email, code)
	switch domain.KindOf(err) {
	case "":
		return nil
	case domain.KindNotFound:
		return domain.E(domain.KindOTPExpired, "OTP expired, please request a new one")
	case domain.KindMismatch:
		return domain.E(mismatch, "invalid OTP")
	}
	return err
}
