package middleware

import (
	"strings"

	xhttp "StockTrack/pkg/http"

	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type AuthOption func(*authConfig)

type authConfig struct {
	queryParam string
}

// AllowQueryToken also accepts the token as ?name=. Browsers cannot set headers
// on a websocket handshake.
func AllowQueryToken(name string) AuthOption {
	return func(c *authConfig) {
		c.queryParam = name
	}
}

// RequireAuth rejects requests without a valid token and stores the user id
// on the context for UserID.
func RequireAuth(tokens TokenVerifier, opts ...AuthOption) echo.MiddlewareFunc {
	cfg := &authConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.Request().Header.Get(echo.HeaderAuthorization)
			if token == "" && cfg.queryParam != "" {
				token = c.QueryParam(cfg.queryParam)
			}
			if token == "" {
				return xhttp.UnauthorizedResponse(c, "Access denied")
			}

			userID, err := tokens.Verify(strings.TrimSpace(strings.TrimPrefix(token, "Bearer ")))
			if err != nil {
				return xhttp.UnauthorizedResponse(c, "Invalid token")
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" outside RequireAuth.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
