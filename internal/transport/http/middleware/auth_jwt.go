package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/transport/http/ez"
	resp "daily-task-portal/internal/transport/http/response"
)

// AuthJWT accepts a Bearer header or the session cookie and sets userId/role.
// requireRole, when set, must match the token's role.
func AuthJWT(j *auth.JWTer, cookieName, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok := bearer(c.GetHeader("Authorization"))
		if tok == "" && cookieName != "" {
			tok, _ = c.Cookie(cookieName)
		}
		if tok == "" {
			resp.Abort(c, resp.CodeUnauthorized, string(domain.KindUnauthorized), "missing token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, resp.CodeUnauthorized, string(domain.KindUnauthorized), "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, resp.CodeForbidden, string(domain.KindForbidden), "forbidden")
			return
		}
		c.Set("claims", claims)
		c.Set(ez.KeyUserID, claims.UID)
		c.Set(ez.KeyRole, claims.Role)
		c.Next()
	}
}

func bearer(h string) string {
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
