package middleware

import (
	"errors"
	"net/http"
	"slices"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/shopcart/pkg/tokens"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	AccessCookie = "accessToken"

	claimsKey = "auth_claims"
)

var ErrUnauthorized = errors.New("unauthorized")

// RequireAuth verifies the access token from the Authorization bearer header
// or, failing that, the accessToken cookie, and stores the subject and role on
// the echo context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  claimsKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:" + AccessCookie,
		ParseTokenFunc: func(c echo.Context, auth string) (any, error) {
			return tokens.AccessClaimsFromToken(auth, secret)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get(claimsKey).(*tokens.AccessClaims)
			if !ok {
				return
			}
			c.Set(CtxUserID, claims.Subject)
			c.Set(CtxRole, claims.Role)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		},
	})
}

func RequireRole(required ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing role")
			}
			if !slices.Contains(required, role) {
				return echo.NewHTTPError(http.StatusForbidden, "admin access required")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id placed on the context by RequireAuth.
func UserID(c echo.Context) (uuid.UUID, error) {
	s, ok := c.Get(CtxUserID).(string)
	if !ok || s == "" {
		return uuid.Nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, ErrUnauthorized
	}

	return userID, nil
}
