package router

import (
	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/transport/http/ez"
	mdw "daily-task-portal/internal/transport/http/middleware"
)

// NewAdminEngine serves the admin console under /admin/v1; every route but login/logout needs the admin role.
func NewAdminEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	public := r.Group("/admin/v1")
	admin := public.Group("")
	admin.Use(mdw.AuthJWT(d.JWT, d.CookieName, string(domain.RoleAdmin)))

	d.Registry.MountAllAdmin(ez.New(public, d.Log), ez.New(admin, d.Log))
	return r
}
