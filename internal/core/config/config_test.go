package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	p := writeYAML(t, "app:\n  name: portal\n")
	c, err := LoadE(p)
	require.NoError(t, err)
	assert.Equal(t, "portal", c.App.Name)
	assert.Equal(t, 10, c.Task.SubmissionWindow.StartHour)
	assert.Equal(t, 19, c.Task.SubmissionWindow.EndHour)
	assert.Equal(t, 10*time.Minute, c.OTPTTL())
	assert.Equal(t, 24*time.Hour, c.TokenTTL())
	assert.Equal(t, "token", c.JWT.CookieName)
	assert.Equal(t, "redis", c.OTP.Store)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	p := writeYAML(t, `
task:
  submissionWindow:
    startHour: 0
    endHour: 19
  timezone: UTC
otp:
  store: db
`)
	t.Setenv("APP_OTP_TTLMIN", "5")
	c, err := LoadE(p)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Task.SubmissionWindow.StartHour)
	assert.Equal(t, "db", c.OTP.Store)
	assert.Equal(t, 5*time.Minute, c.OTPTTL())
	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadRejectsBadWindow(t *testing.T) {
	p := writeYAML(t, "task:\n  submissionWindow:\n    startHour: 19\n    endHour: 10\n")
	_, err := LoadE(p)
	assert.ErrorContains(t, err, "submissionWindow")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := LoadE(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRequiresSecretOutsideLocal(t *testing.T) {
	p := writeYAML(t, "app:\n  env: prod\n")
	_, err := LoadE(p)
	assert.ErrorContains(t, err, "jwt.secret")
}
