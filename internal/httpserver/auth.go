package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/internal/service"
	"github.com/Skotchmaster/shopcart/internal/transport"
	"github.com/Skotchmaster/shopcart/pkg/logging"
	middleware "github.com/Skotchmaster/shopcart/pkg/middleware/auth"
)

type AuthHTTP struct {
	Svc *service.AuthService
	// SecureCookie marks the access cookie Secure; off for plain-http dev.
	SecureCookie bool
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Signup(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return fail(l, "signup_error", err)
	}

	l.Info("signup_success", "user_id", res.User.ID)
	return h.respond(c, http.StatusCreated, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fail(l, "login_error", err)
	}

	l.Info("login_success", "user_id", res.User.ID)
	return h.respond(c, http.StatusOK, res)
}

func (h *AuthHTTP) Google(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.google")

	var req transport.GoogleAuthRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("google_auth_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.GoogleAuth(ctx, req.Credential)
	if err != nil {
		return fail(l, "google_auth_error", err)
	}

	l.Info("google_auth_success", "user_id", res.User.ID)
	return h.respond(c, http.StatusOK, res)
}

func (h *AuthHTTP) respond(c echo.Context, code int, res *service.AuthResult) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(code, transport.AuthResponse{Token: res.Token, User: res.User})
}
