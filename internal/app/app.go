// Package app wires configuration into repositories, services and HTTP modules.
// Both binaries build the same App and differ only in the engine they serve.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/core/cache"
	"daily-task-portal/internal/core/config"
	"daily-task-portal/internal/core/database"
	"daily-task-portal/internal/core/logger"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/notify"
	"daily-task-portal/internal/repo"
	"daily-task-portal/internal/service"
	"daily-task-portal/internal/transport/http/handler"
	"daily-task-portal/internal/transport/http/router"
)

type App struct {
	Cfg      *config.Config
	Log      *zap.Logger
	DB       *gorm.DB
	Redis    redis.UniversalClient
	Notifier *notify.Async
	JWT      *auth.JWTer

	Accounts *service.AccountService
	Auth     *service.AuthService
	Tasks    *service.TaskService
	Registry *router.Registry
}

// NewLogger builds the process logger from config and routes std log and gin output into it.
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	l, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, logger.FileRotate{
		Enable:     cfg.Log.File != "",
		Filename:   cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	gin.DefaultWriter = logger.ToWriter(l.Named("gin"), zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l.Named("gin"), zapcore.ErrorLevel)
	if cfg.App.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}
	return l, func() {
		undo()
		cleanup()
	}
}

func New(ctx context.Context, cfg *config.Config, l *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                l,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	l.Info("database connected", zap.String("driver", cfg.DB.Driver))
	if cfg.DB.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		l.Info("automigrate done")
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	pingErr := rdb.Ping(pingCtx).Err()
	cancel()

	var (
		otpStore domain.OTPStore
		c        *cache.Cache
	)
	switch {
	case pingErr == nil:
		c = cache.NewWithClient(rdb)
		l.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	case cfg.OTP.Store == "redis":
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Redis.Addr, pingErr)
	default:
		l.Warn("redis unavailable, user list cache disabled", zap.Error(pingErr))
	}
	if cfg.OTP.Store == "redis" {
		otpStore = repo.NewOTPStoreRedis(rdb)
	} else {
		otpStore = repo.NewOTPStoreGorm(db)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	jwter := &auth.JWTer{Secret: []byte(cfg.JWT.Secret), Issuer: cfg.JWT.Issuer, TTL: cfg.TokenTTL()}
	notifier := notify.New(cfg.SMTP, l.Named("notify"))

	users := repo.NewUserRepo(db)
	tasks := repo.NewTaskRepo(db)
	otp := service.NewOTPService(otpStore, notifier, l, cfg.OTPTTL(), time.Now)
	accounts := service.NewAccountService(service.AccountDeps{
		Users:       users,
		Tasks:       tasks,
		OTP:         otp,
		Notifier:    notifier,
		Cache:       c,
		ApprovedTTL: time.Duration(cfg.Cache.ApprovedUsersTTLSec) * time.Second,
		Log:         l,
	})
	authSvc := service.NewAuthService(users, otp, jwter, l, cfg.Auth.LegacyTwoFactorBypass)
	taskSvc := service.NewTaskService(tasks, users, service.SubmissionWindow{
		StartHour: cfg.Task.SubmissionWindow.StartHour,
		EndHour:   cfg.Task.SubmissionWindow.EndHour,
		Loc:       loc,
	}, time.Now, l)

	cookie := handler.Cookie{Name: cfg.JWT.CookieName, Secure: cfg.JWT.CookieSecure}
	reg := router.NewRegistry(
		handler.NewAuthHandler(authSvc, accounts, cookie),
		handler.NewAdminHandler(authSvc, accounts, cookie),
		handler.NewTaskHandler(taskSvc),
	)

	return &App{
		Cfg:      cfg,
		Log:      l,
		DB:       db,
		Redis:    rdb,
		Notifier: notifier,
		JWT:      jwter,
		Accounts: accounts,
		Auth:     authSvc,
		Tasks:    taskSvc,
		Registry: reg,
	}, nil
}

func (a *App) RouterDeps() router.Deps {
	return router.Deps{
		Log:         a.Log,
		JWT:         a.JWT,
		CookieName:  a.Cfg.JWT.CookieName,
		CORSOrigins: a.Cfg.App.CORSOrigins,
		Registry:    a.Registry,
	}
}

// SeedAdmin creates the configured bootstrap admin if it is missing.
func (a *App) SeedAdmin(ctx context.Context) error {
	b := a.Cfg.Bootstrap
	if b.AdminEmail == "" {
		return nil
	}
	created, err := a.Accounts.EnsureAdmin(ctx, b.AdminEmail, b.AdminPassword, b.AdminName)
	if err != nil {
		return err
	}
	if created {
		a.Log.Info("admin account seeded", zap.String("email", b.AdminEmail))
	}
	return nil
}

// Close drains pending notifications, then releases connections.
func (a *App) Close() {
	a.Notifier.Close()
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
