package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Cookie carries the session token for browser clients.
type Cookie struct {
	Name   string
	Secure bool
}

func (ck Cookie) name() string {
	if ck.Name == "" {
		return "token"
	}
	return ck.Name
}

func (ck Cookie) Set(c *gin.Context, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	ck.sameSite(c)
	c.SetCookie(ck.name(), token, maxAge, "/", "", ck.Secure, true)
}

func (ck Cookie) Clear(c *gin.Context) {
	ck.sameSite(c)
	c.SetCookie(ck.name(), "", -1, "/", "", ck.Secure, true)
}

func (ck Cookie) sameSite(c *gin.Context) {
	if ck.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
}
