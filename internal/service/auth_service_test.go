package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/pkg/utils"
)

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedUser(t, "pending@example.com", domain.StatusPending, false)
	e.seedUser(t, "ok@example.com", domain.StatusApproved, false)

	cases := []struct {
		name string
		in   LoginInput
		kind domain.Kind
	}{
		{"missing fields", LoginInput{Email: "ok@example.com"}, domain.KindValidation},
		{"unknown email", LoginInput{Email: "nobody@example.com", Password: "secret123"}, domain.KindNotFound},
		{"wrong password", LoginInput{Email: "ok@example.com", Password: "nope"}, domain.KindInvalidCredentials},
		{"pending account", LoginInput{Email: "pending@example.com", Password: "secret123"}, domain.KindAccountNotApproved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess, err := e.authn.Login(ctx, tc.in)
			assert.Nil(t, sess)
			assert.True(t, domain.IsKind(err, tc.kind), err)
		})
	}
}

func TestLoginIssuesBoundCredential(t *testing.T) {
	e := newEnv(t)
	u := e.seedUser(t, "ok@example.com", domain.StatusApproved, false)

	sess, err := e.authn.Login(context.Background(), LoginInput{Email: "OK@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
	assert.Equal(t, e.clock.Now().Add(e.jwt.TTL), sess.ExpiresAt)

	claims, err := e.jwt.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UID)
	assert.Equal(t, string(domain.RoleUser), claims.Role)
}

func TestLoginTwoFactor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedUser(t, "tf@example.com", domain.StatusApproved, true)

	_, err := e.authn.Login(ctx, LoginInput{Email: "tf@example.com", Password: "secret123"})
	assert.True(t, domain.IsKind(err, domain.KindInvalidOTP), err)

	_, err = e.authn.Login(ctx, LoginInput{Email: "tf@example.com", Password: "secret123", Code: "123456"})
	assert.True(t, domain.IsKind(err, domain.KindOTPExpired), err)

	step, err := e.authn.RequestLoginOTP(ctx, "tf@example.com", "secret123")
	require.NoError(t, err)
	assert.True(t, step.OTPSent)
	assert.Nil(t, step.Session)
	msgs := e.mail.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.KindLoginOTP, msgs[0].Kind)
	code := e.mail.lastCode(t, "tf@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}
	_, err = e.authn.Login(ctx, LoginInput{Email: "tf@example.com", Password: "secret123", Code: wrong})
	assert.True(t, domain.IsKind(err, domain.KindInvalidOTP), err)

	sess, err := e.authn.Login(ctx, LoginInput{Email: "tf@example.com", Password: "secret123", Code: code})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)

	// single use
	_, err = e.authn.Login(ctx, LoginInput{Email: "tf@example.com", Password: "secret123", Code: code})
	assert.True(t, domain.IsKind(err, domain.KindOTPExpired), err)
}

func TestLoginLegacyTwoFactorBypass(t *testing.T) {
	e := newEnv(t, withLegacyBypass())
	e.seedUser(t, "tf@example.com", domain.StatusApproved, true)

	sess, err := e.authn.Login(context.Background(), LoginInput{Email: "tf@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
}

func TestRequestLoginOTP(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedUser(t, "pending@example.com", domain.StatusPending, true)
	e.seedUser(t, "plain@example.com", domain.StatusApproved, false)

	_, err := e.authn.RequestLoginOTP(ctx, "nobody@example.com", "secret123")
	assert.True(t, domain.IsKind(err, domain.KindNotFound), err)

	_, err = e.authn.RequestLoginOTP(ctx, "pending@example.com", "secret123")
	assert.True(t, domain.IsKind(err, domain.KindAccountNotApproved), err)
	assert.Contains(t, err.Error(), "pending")

	_, err = e.authn.RequestLoginOTP(ctx, "plain@example.com", "bad")
	assert.True(t, domain.IsKind(err, domain.KindInvalidCredentials), err)

	step, err := e.authn.RequestLoginOTP(ctx, "plain@example.com", "secret123")
	require.NoError(t, err)
	assert.False(t, step.OTPSent)
	require.NotNil(t, step.Session)
	assert.NotEmpty(t, step.Session.Token)
	assert.Empty(t, e.mail.all())
}

func TestAdminLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.seedUser(t, "user@example.com", domain.StatusApproved, false)
	hash, err := utils.HashPassword("root-pw")
	require.NoError(t, err)
	admin := &domain.User{ID: utils.NewID(), Email: "root@example.com", FullName: "Root", PasswordHash: hash, Role: domain.RoleAdmin}
	require.NoError(t, e.users.Create(ctx, admin))

	_, err = e.authn.AdminLogin(ctx, "user@example.com", "secret123")
	assert.True(t, domain.IsKind(err, domain.KindForbidden), err)

	_, err = e.authn.AdminLogin(ctx, "root@example.com", "wrong")
	assert.True(t, domain.IsKind(err, domain.KindInvalidCredentials), err)

	_, err = e.authn.AdminLogin(ctx, "ghost@example.com", "root-pw")
	assert.True(t, domain.IsKind(err, domain.KindInvalidCredentials), err)

	sess, err := e.authn.AdminLogin(ctx, "root@example.com", "root-pw")
	require.NoError(t, err)
	claims, err := e.jwt.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
}
