package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daily-task-portal/internal/core/auth"
	"daily-task-portal/internal/transport/http/ez"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthJWT(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("k"), Issuer: "t", TTL: time.Hour}
	userTok, _, err := j.Issue("u1", "user")
	require.NoError(t, err)
	adminTok, _, err := j.Issue("a1", "admin")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/any", AuthJWT(j, "token", ""), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ez.KeyUserID)+"/"+c.GetString(ez.KeyRole))
	})
	r.GET("/admin", AuthJWT(j, "token", "admin"), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	req := httptest.NewRequest(http.MethodGet, "/any", nil)
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1/user", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/any", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: userTok})
	assert.Equal(t, http.StatusOK, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: userTok})
	assert.Equal(t, http.StatusForbidden, serve(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "bearer "+adminTok)
	assert.Equal(t, http.StatusOK, serve(r, req).Code)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(1, 2, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		return serve(r, req).Code
	}
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"))
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(zap.NewNop()))
	r.GET("/panic", func(*gin.Context) { panic("boom") })
	r.GET("/rid", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/rid", nil)
	req.Header.Set(HeaderRequestID, "abc")
	w := serve(r, req)
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(HeaderRequestID))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"internal"`)
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}
