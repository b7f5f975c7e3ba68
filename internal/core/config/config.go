package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultPath = "./configs/config.local.yaml"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name        string
	Env         string
	HTTP        HTTP
	Admin       AdminHTTP
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type Log struct {
	Level      string
	JSON       bool
	File       string
	MaxSizeMB  int `mapstructure:"maxSizeMB"`
	MaxBackups int `mapstructure:"maxBackups"`
	MaxAgeDays int `mapstructure:"maxAgeDays"`
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int    `mapstructure:"accessTokenTTLMin"`
	CookieName        string `mapstructure:"cookieName"`
	CookieSecure      bool   `mapstructure:"cookieSecure"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int    `mapstructure:"maxOpenConns"`
	MaxIdleConns       int    `mapstructure:"maxIdleConns"`
	ConnMaxLifetimeMin int    `mapstructure:"connMaxLifetimeMin"`
	AutoMigrate        bool   `mapstructure:"autoMigrate"`
	LogLevel           string `mapstructure:"logLevel"`
}

type OTP struct {
	TTLMin int    `mapstructure:"ttlMin"`
	Store  string // redis | db
}

type Window struct {
	StartHour int `mapstructure:"startHour"`
	EndHour   int `mapstructure:"endHour"`
}

type Task struct {
	SubmissionWindow Window `mapstructure:"submissionWindow"`
	Timezone         string
}

type Auth struct {
	// LegacyTwoFactorBypass lets a 2FA account log in without a code on the direct login path.
	LegacyTwoFactorBypass bool `mapstructure:"legacyTwoFactorBypass"`
}

type SMTP struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type Bootstrap struct {
	AdminEmail    string `mapstructure:"adminEmail"`
	AdminPassword string `mapstructure:"adminPassword"`
	AdminName     string `mapstructure:"adminName"`
}

type Cache struct {
	ApprovedUsersTTLSec int `mapstructure:"approvedUsersTTLSec"`
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	OTP       OTP
	Task      Task
	Auth      Auth
	SMTP      SMTP
	Bootstrap Bootstrap
	Cache     Cache
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "daily-task-portal")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.admin.host", "0.0.0.0")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("app.corsOrigins", []string{"http://localhost:5173"})

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.maxSizeMB", 100)
	v.SetDefault("log.maxBackups", 7)
	v.SetDefault("log.maxAgeDays", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "daily-task-portal")
	v.SetDefault("jwt.accessTokenTTLMin", 24*60)
	v.SetDefault("jwt.cookieName", "token")
	v.SetDefault("jwt.cookieSecure", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "portal.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("otp.ttlMin", 10)
	v.SetDefault("otp.store", "redis")

	v.SetDefault("task.submissionWindow.startHour", 10)
	v.SetDefault("task.submissionWindow.endHour", 19)
	v.SetDefault("task.timezone", "Local")

	v.SetDefault("auth.legacyTwoFactorBypass", false)

	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")

	v.SetDefault("bootstrap.adminEmail", "")
	v.SetDefault("bootstrap.adminPassword", "")
	v.SetDefault("bootstrap.adminName", "Administrator")

	v.SetDefault("cache.approvedUsersTTLSec", 60)
}

// Load reads the config or exits; see LoadE.
func Load(path string) *Config {
	c, err := LoadE(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return c
}

// LoadE reads YAML at path (CONFIG_PATH, then ./configs/config.local.yaml) with APP_* env overrides.
// A missing default file is not an error; defaults and env still apply.
func LoadE(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	explicit := path != ""
	if !explicit {
		if path = os.Getenv("CONFIG_PATH"); path != "" {
			explicit = true
		} else {
			path = defaultPath
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	w := c.Task.SubmissionWindow
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("task.submissionWindow: need 0 <= startHour < endHour <= 24, got %d-%d", w.StartHour, w.EndHour)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("task.timezone: %w", err)
	}
	switch c.OTP.Store {
	case "redis", "db":
	default:
		return fmt.Errorf("otp.store: want redis or db, got %q", c.OTP.Store)
	}
	if c.OTP.TTLMin <= 0 {
		return fmt.Errorf("otp.ttlMin must be positive")
	}
	if c.App.Env != "local" && c.App.Env != "test" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required outside local env")
	}
	return nil
}

// Location resolves task.timezone; "" and "Local" mean the server zone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Task.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Task.Timezone)
}

func (c *Config) OTPTTL() time.Duration { return time.Duration(c.OTP.TTLMin) * time.Minute }

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenTTLMin) * time.Minute
}
