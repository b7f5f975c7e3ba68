package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/core/metrics"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/pkg/utils"
)

// Session is the credential handed to a client after a completed login.
type Session struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// LoginStep is the outcome of the first login step: either a code was mailed or,
// for accounts without two-factor, the session is issued straight away.
type LoginStep struct {
	OTPSent bool     `json:"otpSent"`
	Session *Session `json:"session,omitempty"`
}

type LoginInput struct {
	Email    string
	Password string
	Code     string
}

type AuthService struct {
	users domain.UserRepository
	otp   *OTPService
	jwt   *auth.JWTer
	l     *zap.Logger

	legacyTwoFactorBypass bool
}

func NewAuthService(users domain.UserRepository, otp *OTPService, jwt *auth.JWTer, l *zap.Logger, legacyTwoFactorBypass bool) *AuthService {
	return &AuthService{users: users, otp: otp, jwt: jwt, l: l, legacyTwoFactorBypass: legacyTwoFactorBypass}
}

func credentialsRequired(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return domain.E(domain.KindValidation, "email and password are required")
	}
	return nil
}

func (s *AuthService) lookup(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	return u, nil
}

func approvalGate(u *domain.User) error {
	switch u.Status {
	case domain.StatusApproved:
		return nil
	case domain.StatusRejected:
		return domain.E(domain.KindAccountNotApproved, "your account has been rejected")
	}
	return domain.E(domain.KindAccountNotApproved, "your account is pending admin approval")
}

// RequestLoginOTP is the first step of two-factor login.
func (s *AuthService) RequestLoginOTP(ctx context.Context, email, password string) (*LoginStep, error) {
	if err := credentialsRequired(email, password); err != nil {
		return nil, err
	}
	u, err := s.lookup(ctx, email)
	if err != nil {
		return nil, s.fail(err)
	}
	if err := approvalGate(u); err != nil {
		return nil, s.fail(err)
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, s.fail(domain.E(domain.KindInvalidCredentials, "invalid credentials"))
	}
	if !u.TwoFactorEnabled {
		sess, err := s.issue(u)
		if err != nil {
			return nil, err
		}
		return &LoginStep{Session: sess}, nil
	}
	if err := s.otp.Issue(ctx, u.Email, notify.KindLoginOTP); err != nil {
		return nil, err
	}
	return &LoginStep{OTPSent: true}, nil
}

// Login completes a login. The code is required for two-factor accounts unless
// the legacy bypass is configured.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := credentialsRequired(in.Email, in.Password); err != nil {
		return nil, err
	}
	u, err := s.lookup(ctx, in.Email)
	if err != nil {
		return nil, s.fail(err)
	}
	if !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, s.fail(domain.E(domain.KindInvalidCredentials, "invalid credentials"))
	}
	if err := approvalGate(u); err != nil {
		return nil, s.fail(err)
	}
	if u.TwoFactorEnabled {
		switch {
		case strings.TrimSpace(in.Code) != "":
			if err := s.otp.verifyAs(ctx, u.Email, in.Code, domain.KindInvalidOTP); err != nil {
				return nil, s.fail(err)
			}
		case s.legacyTwoFactorBypass:
			s.l.Warn("two-factor bypassed on direct login", zap.String("user_id", u.ID))
		default:
			return nil, s.fail(domain.E(domain.KindInvalidOTP, "otp required"))
		}
	}
	return s.issue(u)
}

// AdminLogin accepts only admin accounts; others get Forbidden after a valid password.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	if err := credentialsRequired(email, password); err != nil {
		return nil, err
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, s.fail(domain.E(domain.KindInvalidCredentials, "invalid credentials"))
	}
	if u.Role != domain.RoleAdmin {
		return nil, s.fail(domain.E(domain.KindForbidden, "admin access required"))
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *domain.User) (*Session, error) {
	token, exp, err := s.jwt.Issue(u.ID, string(u.Role))
	if err != nil {
		return nil, domain.Internal("issue token failed", err)
	}
	metrics.Logins.WithLabelValues("ok").Inc()
	s.l.Info("login", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *AuthService) fail(err error) error {
	metrics.Logins.WithLabelValues(string(domain.KindOf(err))).Inc()
	return err
}
