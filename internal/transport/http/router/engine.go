package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/core/server"
	mdw "daily-task-portal/internal/transport/http/middleware"
)

// Deps is shared by both engines.
type Deps struct {
	Log         *zap.Logger
	JWT         *auth.JWTer
	CookieName  string
	CORSOrigins []string
	Registry    *Registry
}

func newEngine(d Deps) *gin.Engine {
	r := server.NewRouter(d.Log, server.Options{
		CORSOrigins: d.CORSOrigins,
		SkipPaths:   []string{"/health", "/metrics"},
	})
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(d.Log),
		mdw.RateLimit(200, 400),
		mdw.RateLimitPerIP(20, 40, 10*time.Minute),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(1<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
