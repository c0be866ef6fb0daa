package middleware

import (
	"net/http"

	xhttp "StockTrack/pkg/http"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether key may proceed.
type Limiter interface {
	Allow(key string) bool
}

// RateLimit throttles requests per client IP.
func RateLimit(l Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				c.Response().Header().Set("Retry-After", "60")
				return xhttp.ErrorResponse(c, http.StatusTooManyRequests, "Too many requests")
			}
			return next(c)
		}
	}
}
