package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daily-task-portal/internal/domain"
	resp "daily-task-portal/internal/transport/http/response"
)

// Recovery logs the panic with stack and answers with the standard envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		resp.Abort(c, resp.CodeServerError, string(domain.KindInternal), "internal error")
	})
}
