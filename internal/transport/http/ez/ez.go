// Package ez registers JSON actions on gin groups with one call each.
// Handlers return a value or a domain error; the envelope and HTTP status are derived here.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"daily-task-portal/internal/domain"
	resp "daily-task-portal/internal/transport/http/response"
)

const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

type EZ struct {
	g *gin.RouterGroup
	l *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, l: l}
}

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindURI   Binder = "uri"
	BindNone  Binder = "none"
)

// Action describes one endpoint: I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method string
	Path   string
	Binder Binder
	Auth   bool     // require userId from the auth middleware
	Roles  []string // optional role filter, implies Auth
	// Status is the HTTP status on success; 0 means 200.
	Status int
	// Overrides replaces the default status for specific kinds on this route.
	Overrides map[domain.Kind]int
	Handler   func(c *gin.Context, in *I) (O, error)
}

var kindStatus = map[domain.Kind]int{
	domain.KindValidation:         resp.CodeBadRequest,
	domain.KindInvalidStatus:      resp.CodeBadRequest,
	domain.KindNotFound:           resp.CodeNotFound,
	domain.KindOTPExpired:         resp.CodeNotFound,
	domain.KindUnauthorized:       resp.CodeUnauthorized,
	domain.KindInvalidCredentials: resp.CodeUnauthorized,
	domain.KindInvalidOTP:         resp.CodeUnauthorized,
	domain.KindMismatch:           resp.CodeUnauthorized,
	domain.KindForbidden:          resp.CodeForbidden,
	domain.KindAccountNotApproved: resp.CodeForbidden,
	domain.KindConflict:           resp.CodeConflict,
	domain.KindAlreadySubmitted:   resp.CodeConflict,
	domain.KindOutsideWindow:      resp.CodeUnprocessable,
	domain.KindInternal:           resp.CodeServerError,
}

// StatusOf maps a kind to its default HTTP status.
func StatusOf(kind domain.Kind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return resp.CodeServerError
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth || len(a.Roles) > 0 {
			if c.GetString(KeyUserID) == "" {
				resp.Abort(c, resp.CodeUnauthorized, string(domain.KindUnauthorized), "unauthorized")
				return
			}
			if len(a.Roles) > 0 && !hasRole(c.GetString(KeyRole), a.Roles) {
				resp.Abort(c, resp.CodeForbidden, string(domain.KindForbidden), "forbidden")
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		case BindURI:
			bindErr = c.ShouldBindUri(&in)
		}
		if bindErr != nil {
			resp.Abort(c, resp.CodeBadRequest, string(domain.KindValidation), bindErr.Error())
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, a.Overrides, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func (e EZ) fail(c *gin.Context, overrides map[domain.Kind]int, err error) {
	kind := domain.KindOf(err)
	status, ok := overrides[kind]
	if !ok {
		status = StatusOf(kind)
	}
	msg := err.Error()
	var de *domain.Error
	if kind == domain.KindInternal || !errors.As(err, &de) {
		e.l.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("rid", c.GetString("rid")),
			zap.Error(err),
		)
		msg = resp.CodeMsgMap[resp.CodeServerError]
	}
	resp.Abort(c, status, string(kind), msg)
}

func hasRole(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
