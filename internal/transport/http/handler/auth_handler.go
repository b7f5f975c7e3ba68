package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"daily-task-portal/internal/domain"
	"daily-task-portal/internal/service"
	"daily-task-portal/internal/transport/http/ez"
)

// AuthHandler serves registration, login and the caller's own profile.
type AuthHandler struct {
	auth     *service.AuthService
	accounts *service.AccountService
	cookie   Cookie
}

func NewAuthHandler(auth *service.AuthService, accounts *service.AccountService, cookie Cookie) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, cookie: cookie}
}

func (h *AuthHandler) Priority() int { return 10 }

type registerOTPIn struct {
	FullName string `json:"fullName" binding:"required,max=128"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type registerIn struct {
	registerOTPIn
	OTP string `json:"otp" binding:"required"`
}

type loginOTPIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginIn struct {
	loginOTPIn
	OTP string `json:"otp"`
}

type twoFactorIn struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type msgOut struct {
	Message string `json:"message"`
}

func (h *AuthHandler) MountAPI(public, authed ez.EZ) {
	ez.RegisterAction(public, ez.Action[registerOTPIn, msgOut]{
		Method: http.MethodPost,
		Path:   "/auth/register/otp",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerOTPIn) (msgOut, error) {
			err := h.accounts.RequestRegisterOTP(c.Request.Context(), service.RegisterInput{
				FullName: in.FullName, Email: in.Email, Password: in.Password,
			})
			if err != nil {
				return msgOut{}, err
			}
			return msgOut{Message: "OTP sent to email"}, nil
		},
	})

	ez.RegisterAction(public, ez.Action[registerIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		// a wrong code on signup is reported as a conflict with the pending challenge
		Overrides: map[domain.Kind]int{domain.KindInvalidOTP: http.StatusConflict},
		Handler: func(c *gin.Context, in *registerIn) (*domain.User, error) {
			return h.accounts.Register(c.Request.Context(), service.RegisterInput{
				FullName: in.FullName, Email: in.Email, Password: in.Password, Code: in.OTP,
			})
		},
	})

	ez.RegisterAction(public, ez.Action[loginOTPIn, *service.LoginStep]{
		Method: http.MethodPost,
		Path:   "/auth/login/otp",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginOTPIn) (*service.LoginStep, error) {
			step, err := h.auth.RequestLoginOTP(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return nil, err
			}
			if step.Session != nil {
				h.cookie.Set(c, step.Session.Token, step.Session.ExpiresAt)
			}
			return step, nil
		},
	})

	ez.RegisterAction(public, ez.Action[loginIn, *service.Session]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.Session, error) {
			sess, err := h.auth.Login(c.Request.Context(), service.LoginInput{
				Email: in.Email, Password: in.Password, Code: in.OTP,
			})
			if err != nil {
				return nil, err
			}
			h.cookie.Set(c, sess.Token, sess.ExpiresAt)
			return sess, nil
		},
	})

	ez.RegisterAction(public, ez.Action[struct{}, msgOut]{
		Method:  http.MethodPost,
		Path:    "/auth/logout",
		Binder:  ez.BindNone,
		Handler: logout(h.cookie),
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *domain.User]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.User, error) {
			return h.accounts.Me(c.Request.Context(), c.GetString(ez.KeyUserID))
		},
	})

	ez.RegisterAction(authed, ez.Action[twoFactorIn, *domain.User]{
		Method: http.MethodPut,
		Path:   "/me/two-factor",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *twoFactorIn) (*domain.User, error) {
			return h.accounts.SetTwoFactor(c.Request.Context(), c.GetString(ez.KeyUserID), *in.Enabled)
		},
	})
}

// logout only clears the cookie; tokens are stateless.
func logout(ck Cookie) func(c *gin.Context, _ *struct{}) (msgOut, error) {
	return func(c *gin.Context, _ *struct{}) (msgOut, error) {
		ck.Clear(c)
		return msgOut{Message: "Logged out successfully"}, nil
	}
}
