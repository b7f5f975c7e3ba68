package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"daily-task-portal/internal/core/cache"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/pkg/utils"
)

const approvedUsersKey = "portal:users:approved"

type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Code     string
}

func (in RegisterInput) validate() error {
	if strings.TrimSpace(in.FullName) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return domain.E(domain.KindValidation, "fullName, email and password are required")
	}
	if !strings.Contains(in.Email, "@") {
		return domain.E(domain.KindValidation, "invalid email")
	}
	return checkPasswordLen(in.Password)
}

func checkPasswordLen(pw string) error {
	if len(pw) > utils.MaxPasswordBytes {
		return domain.E(domain.KindValidation, "password must be at most 72 bytes")
	}
	return nil
}

// UserCard is the public projection of an approved user.
type UserCard struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
}

// UserDetail is what an admin sees for one user.
type UserDetail struct {
	User  *domain.User  `json:"user"`
	Tasks []domain.Task `json:"tasks"`
}

// AccountService covers registration, approval and profile settings.
type AccountService struct {
	users       domain.UserRepository
	tasks       domain.TaskRepository
	otp         *OTPService
	notifier    notify.Notifier
	cache       *cache.Cache
	approvedTTL time.Duration
	l           *zap.Logger
}

type AccountDeps struct {
	Users       domain.UserRepository
	Tasks       domain.TaskRepository
	OTP         *OTPService
	Notifier    notify.Notifier
	Cache       *cache.Cache // optional
	ApprovedTTL time.Duration
	Log         *zap.Logger
}

func NewAccountService(d AccountDeps) *AccountService {
	if d.ApprovedTTL <= 0 {
		d.ApprovedTTL = time.Minute
	}
	return &AccountService{
		users:       d.Users,
		tasks:       d.Tasks,
		otp:         d.OTP,
		notifier:    d.Notifier,
		cache:       d.Cache,
		approvedTTL: d.ApprovedTTL,
		l:           d.Log,
	}
}

func (s *AccountService) RequestRegisterOTP(ctx context.Context, in RegisterInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return domain.Internal("lookup user failed", err)
	}
	if u != nil {
		return domain.E(domain.KindConflict, "user already exists")
	}
	return s.otp.Issue(ctx, in.Email, notify.KindRegisterOTP)
}

// Register verifies the code and creates a pending user. It does not log the user in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Code) == "" {
		return nil, domain.E(domain.KindValidation, "otp is required")
	}
	if err := s.otp.verifyAs(ctx, in.Email, in.Code, domain.KindInvalidOTP); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, domain.Internal("hash password failed", err)
	}
	name := strings.TrimSpace(in.FullName)
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        in.Email,
		FullName:     name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Status:       domain.StatusPending,
		Photo:        utils.AvatarURL(name),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return nil, err
		}
		return nil, domain.Internal("create user failed", err)
	}
	s.l.Info("user registered", zap.String("user_id", u.ID), zap.String("email", u.Email))
	return u, nil
}

func (s *AccountService) ListPending(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListByStatus(ctx, domain.RoleUser, domain.StatusPending)
	if err != nil {
		return nil, domain.Internal("list users failed", err)
	}
	return users, nil
}

// ListApproved is read through the cache when one is configured.
func (s *AccountService) ListApproved(ctx context.Context) ([]UserCard, error) {
	load := func(ctx context.Context) ([]UserCard, error) {
		users, err := s.users.ListByStatus(ctx, domain.RoleUser, domain.StatusApproved)
		if err != nil {
			return nil, err
		}
		cards := make([]UserCard, 0, len(users))
		for _, u := range users {
			cards = append(cards, UserCard{ID: u.ID, FullName: u.FullName, Email: u.Email, Photo: u.Photo})
		}
		return cards, nil
	}
	var (
		cards []UserCard
		err   error
	)
	if s.cache != nil {
		cards, err = cache.GetOrLoadJSON(s.cache, ctx, approvedUsersKey, s.approvedTTL, load)
	} else {
		cards, err = load(ctx)
	}
	if err != nil {
		return nil, domain.Internal("list users failed", err)
	}
	return cards, nil
}

// SetStatus applies an admin decision. Rejection deletes the account.
func (s *AccountService) SetStatus(ctx context.Context, userID, decision string) error {
	status, err := domain.ParseDecision(decision)
	if err != nil {
		return err
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return domain.E(domain.KindNotFound, "user not found")
	}
	if u.Role == domain.RoleAdmin {
		return domain.E(domain.KindForbidden, "cannot change an admin account")
	}

	var msg notify.Message
	switch status {
	case domain.StatusApproved:
		if u.Status != domain.StatusApproved {
			ok, err := s.users.UpdateStatus(ctx, u.ID, domain.StatusApproved)
			if err != nil {
				return domain.Internal("update user failed", err)
			}
			if !ok {
				return domain.E(domain.KindNotFound, "user not found")
			}
		}
		msg = notify.ApprovedMessage(u.Email, u.FullName)
	case domain.StatusRejected:
		deleted, err := s.users.Delete(ctx, u.ID)
		if err != nil {
			return domain.Internal("delete user failed", err)
		}
		if deleted == nil {
			return domain.E(domain.KindNotFound, "user not found")
		}
		msg = notify.RejectedMessage(deleted.Email, deleted.FullName)
	}

	s.invalidateApproved(ctx)
	s.l.Info("user status changed", zap.String("user_id", u.ID), zap.String("status", string(status)))
	if err := s.notifier.Send(ctx, msg); err != nil {
		s.l.Warn("status notification failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	return nil
}

func (s *AccountService) invalidateApproved(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, approvedUsersKey); err != nil {
		s.l.Warn("invalidate approved users failed", zap.Error(err))
	}
}

// UserDetails returns the user with tasks newest first.
func (s *AccountService) UserDetails(ctx context.Context, userID string) (*UserDetail, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, domain.E(domain.KindNotFound, "user not found")
	}
	tasks, err := s.tasks.ListByUser(ctx, u.ID, true)
	if err != nil {
		return nil, domain.Internal("list tasks failed", err)
	}
	return &UserDetail{User: u, Tasks: tasks}, nil
}

func (s *AccountService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, domain.E(domain.KindUnauthorized, "account no longer exists")
	}
	return u, nil
}

func (s *AccountService) SetTwoFactor(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	ok, err := s.users.UpdateTwoFactor(ctx, userID, enabled)
	if err != nil {
		return nil, domain.Internal("update user failed", err)
	}
	if !ok {
		return nil, domain.E(domain.KindUnauthorized, "account no longer exists")
	}
	return s.Me(ctx, userID)
}

// EnsureAdmin creates the bootstrap admin when no account holds email. An existing
// account is left untouched.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password, name string) (created bool, err error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, domain.E(domain.KindValidation, "admin email and password are required")
	}
	if err := checkPasswordLen(password); err != nil {
		return false, err
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, domain.Internal("lookup user failed", err)
	}
	if existing != nil {
		if existing.Role != domain.RoleAdmin {
			s.l.Warn("bootstrap admin email belongs to a regular user", zap.String("email", existing.Email))
		}
		return false, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, domain.Internal("hash password failed", err)
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		FullName:     name,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Photo:        utils.AvatarURL(name),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			return false, nil
		}
		return false, domain.Internal("create admin failed", err)
	}
	s.l.Info("bootstrap admin created", zap.String("email", u.Email))
	return true, nil
}
