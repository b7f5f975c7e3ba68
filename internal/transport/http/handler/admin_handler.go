package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/service"
	"daily-task-portal/internal/transport/http/ez"
)

// AdminHandler serves the admin console: login and user approval.
type AdminHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
	cookie   Cookie
}

func NewAdminHandler(auth *service.AuthService, accounts *service.AccountService, cookie Cookie) *AdminHandler {
	return &AdminHandler{auth: auth, accounts: accounts, cookie: cookie}
}

func (h *AdminHandler) Priority() int { return 10 }

type adminLoginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userURI struct {
	ID string `uri:"id" binding:"required"`
}

type statusIn struct {
	Status string `json:"status" binding:"required"`
}

func (h *AdminHandler) MountAdmin(public, admin ez.EZ) {
	adminOnly := []string{string(domain.RoleAdmin)}

	ez.RegisterAction(public, ez.Action[adminLoginIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *adminLoginIn) (*service.Session, error) {
			sess, err := h.auth.AdminLogin(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			h.cookie.Set(c, sess.Token, sess.ExpiresAt)
			return sess, nil
		},
	})

	ez.RegisterAction(public, ez.Action[struct{}, msgOut]{
		Method:  http.MethodPost,
		Path:    "/logout",
		Binder:  ez.BindNone,
		Handler: logout(h.cookie),
	})

	ez.RegisterAction(admin, ez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users/pending",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return h.accounts.ListPending(c.Request.Context())
		},
	})

	ez.RegisterAction(admin, ez.Action[struct{}, []service.UserCard]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindNone,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.UserCard, error) {
			return h.accounts.ListApproved(c.Request.Context())
		},
	})

	ez.RegisterAction(admin, ez.Action[userURI, *service.UserDetail]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindURI,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *userURI) (*service.UserDetail, error) {
			return h.accounts.UserDetails(c.Request.Context(), in.ID)
		},
	})

	ez.RegisterAction(admin, ez.Action[statusIn, msgOut]{
		Method: http.MethodPut,
		Path:   "/users/:id/status",
		Binder: ez.BindJSON,
		Roles:  adminOnly,
		Handler: func(c *gin.Context, in *statusIn) (msgOut, error) {
			if err := h.accounts.SetStatus(c.Request.Context(), c.Param("id"), in.Status); err != nil {
				return msgOut{}, err
			}
			return msgOut{Message: "User " + strings.ToLower(strings.TrimSpace(in.Status))}, nil
		},
	})
}
