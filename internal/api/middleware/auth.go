package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/accounts-service/internal/core/ports"
	"github.com/99minutos/accounts-service/internal/core/service"
)

// Context keys set by Auth.
const (
	CtxEmail  = "email"
	CtxRole   = "role"
	CtxUserID = "user_id"
)

// AccessTokenParser validates an access token and returns its claims.
type AccessTokenParser interface {
	ParseAccessToken(token string) (*ports.TokenClaims, error)
}

// Auth validates the bearer access token and injects the caller's identity
// into the context. Refresh tokens are rejected.
func Auth(tokens AccessTokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.ParseAccessToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxEmail, claims.Subject)
			c.Set(CtxRole, claims.Claims[service.ClaimRole])
			c.Set(CtxUserID, claims.Claims[service.ClaimUserID])

			return next(c)
		}
	}
}
