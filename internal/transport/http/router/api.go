package router

import (
	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/transport/http/ez"
	mdw "daily-task-portal/internal/transport/http/middleware"
)

// NewAPIEngine serves the user-facing API under /api/v1.
func NewAPIEngine(d Deps) *gin.Engine {
	r := newEngine(d)

	api := r.Group("/api/v1")
	authed := api.Group("")
	authed.Use(mdw.AuthJWT(d.JWT, d.CookieName, ""))

	d.Registry.MountAllAPI(ez.New(api, d.Log), ez.New(authed, d.Log))
	return r
}
