package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/core/cache"
	"daily-task-portal/internal/core/database"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/internal/repo"
	"daily-task-portal/pkg/utils"
)

const testTTL = 10 * time.Minute

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *fakeClock) Advance(d time.Duration) { c.Set(c.Now().Add(d)) }

type mailbox struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (m *mailbox) Send(_ context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return m.err
}

func (m *mailbox) all() []notify.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Message(nil), m.msgs...)
}

var codeRe = regexp.MustCompile(`>(\d{6})<`)

// lastCode returns the most recent code mailed to addr.
func (m *mailbox) lastCode(t *testing.T, addr string) string {
	t.Helper()
	msgs := m.all()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].To != addr {
			continue
		}
		if sub := codeRe.FindStringSubmatch(msgs[i].HTML); sub != nil {
			return sub[1]
		}
	}
	t.Fatalf("no code mailed to %s", addr)
	return ""
}

type env struct {
	users    *repo.UserRepo
	tasks    *repo.TaskRepo
	clock    *fakeClock
	mail     *mailbox
	jwt      *auth.JWTer
	otp      *OTPService
	accounts *AccountService
	authn    *AuthService
	taskSvc  *TaskService
	redis    *miniredis.Miniredis
}

type envOpt func(*envConfig)

type envConfig struct {
	redisOTP bool
	bypass   bool
}

func withRedisOTP() envOpt     { return func(c *envConfig) { c.redisOTP = true } }
func withLegacyBypass() envOpt { return func(c *envConfig) { c.bypass = true } }

func newEnv(t *testing.T, opts ...envOpt) *env {
	t.Helper()
	var cfg envConfig
	for _, o := range opts {
		o(&cfg)
	}

	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	e := &env{
		users: repo.NewUserRepo(db),
		tasks: repo.NewTaskRepo(db),
		clock: &fakeClock{t: time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)},
		mail:  &mailbox{},
		redis: mr,
	}
	e.jwt = &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: 24 * time.Hour, Now: e.clock.Now}

	var store domain.OTPStore = repo.NewOTPStoreGorm(db)
	if cfg.redisOTP {
		store = repo.NewOTPStoreRedis(rdb)
	}
	l := zap.NewNop()
	e.otp = NewOTPService(store, e.mail, l, testTTL, e.clock.Now)
	e.accounts = NewAccountService(AccountDeps{
		Users:       e.users,
		Tasks:       e.tasks,
		OTP:         e.otp,
		Notifier:    e.mail,
		Cache:       cache.NewWithClient(rdb),
		ApprovedTTL: time.Minute,
		Log:         l,
	})
	e.authn = NewAuthService(e.users, e.otp, e.jwt, l, cfg.bypass)
	e.taskSvc = NewTaskService(e.tasks, e.users,
		SubmissionWindow{StartHour: 10, EndHour: 19, Loc: time.UTC}, e.clock.Now, l)
	return e
}

// seedUser stores a user with password "secret123".
func (e *env) seedUser(t *testing.T, email string, status domain.Status, twoFactor bool) *domain.User {
	t.Helper()
	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)
	u := &domain.User{
		ID:               utils.NewID(),
		Email:            email,
		FullName:         "User " + email,
		PasswordHash:     hash,
		Status:           status,
		TwoFactorEnabled: twoFactor,
	}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}
