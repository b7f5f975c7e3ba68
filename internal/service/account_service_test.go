package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/pkg/utils"
)

func registerInput(email string) RegisterInput {
	return RegisterInput{FullName: "ann lee", Email: email, Password: "secret123"}
}

func TestRequestRegisterOTP(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	err := e.accounts.RequestRegisterOTP(ctx, RegisterInput{Email: "ann@example.com"})
	assert.True(t, domain.IsKind(err, domain.KindValidation), err)

	require.NoError(t, e.accounts.RequestRegisterOTP(ctx, registerInput("ann@example.com")))
	msgs := e.mail.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.KindRegisterOTP, msgs[0].Kind)

	e.seedUser(t, "bob@example.com", domain.StatusApproved, false)
	err = e.accounts.RequestRegisterOTP(ctx, registerInput("BOB@example.com"))
	assert.True(t, domain.IsKind(err, domain.KindConflict), err)
}

func TestRegisterCreatesPendingUser(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := registerInput("Ann@Example.com")
	require.NoError(t, e.accounts.RequestRegisterOTP(ctx, in))
	in.Code = e.mail.lastCode(t, "ann@example.com")

	u, err := e.accounts.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, domain.StatusPending, u.Status)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.Equal(t, utils.AvatarURL("ann lee"), u.Photo)
	assert.True(t, utils.CheckPassword("secret123", u.PasswordHash))

	stored, err := e.users.FindByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, u.ID, stored.ID)

	// the code is spent
	_, err = e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindOTPExpired), err)
}

func TestRegisterOTPFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	in := registerInput("ann@example.com")
	in.Code = "123456"
	_, err := e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindOTPExpired), err)

	require.NoError(t, e.accounts.RequestRegisterOTP(ctx, in))
	code := e.mail.lastCode(t, "ann@example.com")
	in.Code = "000000"
	if code == in.Code {
		in.Code = "111111"
	}
	_, err = e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindInvalidOTP), err)

	e.clock.Advance(testTTL + time.Second)
	in.Code = code
	_, err = e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindOTPExpired), err)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := registerInput("ann@example.com")
	require.NoError(t, e.accounts.RequestRegisterOTP(ctx, in))
	in.Code = e.mail.lastCode(t, "ann@example.com")

	// someone else takes the email between otp request and registration
	e.seedUser(t, "ann@example.com", domain.StatusPending, false)

	_, err := e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindConflict), err)
}

func TestRegisterRejectsOverlongPasswordBeforeSpendingCode(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	long := strings.Repeat("p", 80)

	in := registerInput("ann@example.com")
	in.Password = long
	err := e.accounts.RequestRegisterOTP(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindValidation), err)
	assert.Empty(t, e.mail.all())

	in.Password = "secret123"
	require.NoError(t, e.accounts.RequestRegisterOTP(ctx, in))
	in.Code = e.mail.lastCode(t, "ann@example.com")

	in.Password = long
	_, err = e.accounts.Register(ctx, in)
	assert.True(t, domain.IsKind(err, domain.KindValidation), err)

	// the challenge is still live
	in.Password = strings.Repeat("p", 72)
	u, err := e.accounts.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, u.Status)
}

func TestSetStatusApprove(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "ann@example.com", domain.StatusPending, false)

	require.NoError(t, e.accounts.SetStatus(ctx, u.ID, "approved"))
	got, err := e.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)

	// repeat approval is a no-op that still succeeds
	require.NoError(t, e.accounts.SetStatus(ctx, u.ID, "approved"))

	msgs := e.mail.all()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.KindApproved, msgs[0].Kind)
	assert.Equal(t, "ann@example.com", msgs[0].To)
}

func TestSetStatusRejectDeletes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "ann@example.com", domain.StatusPending, false)

	require.NoError(t, e.accounts.SetStatus(ctx, u.ID, "rejected"))
	got, err := e.users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	msgs := e.mail.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.KindRejected, msgs[0].Kind)

	err = e.accounts.SetStatus(ctx, u.ID, "approved")
	assert.True(t, domain.IsKind(err, domain.KindNotFound), err)
}

func TestSetStatusFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "ann@example.com", domain.StatusPending, false)
	admin := &domain.User{ID: utils.NewID(), Email: "root@example.com", FullName: "Root", PasswordHash: "x", Role: domain.RoleAdmin}
	require.NoError(t, e.users.Create(ctx, admin))

	cases := []struct {
		name, id, status string
		kind             domain.Kind
	}{
		{"invalid status", u.ID, "pending", domain.KindInvalidStatus},
		{"garbage status", u.ID, "banana", domain.KindInvalidStatus},
		{"unknown user", "missing", "approved", domain.KindNotFound},
		{"admin target", admin.ID, "rejected", domain.KindForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := e.accounts.SetStatus(ctx, tc.id, tc.status)
			assert.True(t, domain.IsKind(err, tc.kind), err)
		})
	}
	assert.Empty(t, e.mail.all())
}

func TestListPendingAndApproved(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.seedUser(t, "p@example.com", domain.StatusPending, false)
	a := e.seedUser(t, "a@example.com", domain.StatusApproved, false)

	pending, err := e.accounts.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].ID)

	approved, err := e.accounts.ListApproved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []UserCard{{ID: a.ID, FullName: a.FullName, Email: a.Email, Photo: a.Photo}}, approved)
	assert.True(t, e.redis.Exists(approvedUsersKey))

	// approval invalidates the cached list
	require.NoError(t, e.accounts.SetStatus(ctx, p.ID, "approved"))
	assert.False(t, e.redis.Exists(approvedUsersKey))
	approved, err = e.accounts.ListApproved(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 2)
}

func TestListApprovedWithoutCache(t *testing.T) {
	e := newEnv(t)
	e.accounts.cache = nil
	e.seedUser(t, "a@example.com", domain.StatusApproved, false)

	approved, err := e.accounts.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Len(t, approved, 1)
}

func TestUserDetailsNewestTasksFirst(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "a@example.com", domain.StatusApproved, false)

	_, err := e.taskSvc.Assign(ctx, "first", []string{u.ID})
	require.NoError(t, err)
	e.clock.Advance(24 * time.Hour)
	_, err = e.taskSvc.Assign(ctx, "second", []string{u.ID})
	require.NoError(t, err)

	d, err := e.accounts.UserDetails(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, d.User.ID)
	require.Len(t, d.Tasks, 2)
	assert.Equal(t, "second", d.Tasks[0].Title)
	assert.Equal(t, "first", d.Tasks[1].Title)

	_, err = e.accounts.UserDetails(ctx, "missing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound), err)
}

func TestSetTwoFactorAndMe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.seedUser(t, "a@example.com", domain.StatusApproved, false)

	got, err := e.accounts.SetTwoFactor(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, got.TwoFactorEnabled)

	me, err := e.accounts.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, me.TwoFactorEnabled)

	_, err = e.accounts.Me(ctx, "missing")
	assert.True(t, domain.IsKind(err, domain.KindUnauthorized), err)
}

func TestEnsureAdmin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	created, err := e.accounts.EnsureAdmin(ctx, "Root@Example.com", "pw-123456", "")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := e.users.FindByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.Equal(t, domain.StatusApproved, u.Status)
	assert.Equal(t, "Administrator", u.FullName)

	created, err = e.accounts.EnsureAdmin(ctx, "root@example.com", "other", "x")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = e.accounts.EnsureAdmin(ctx, "", "pw", "")
	assert.True(t, domain.IsKind(err, domain.KindValidation), err)

	_, err = e.accounts.EnsureAdmin(ctx, "ops@example.com", strings.Repeat("x", 73), "")
	assert.True(t, domain.IsKind(err, domain.KindValidation), err)
}
