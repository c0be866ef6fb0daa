package api

import (
	"context"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	"StockTrack/internal/middleware"
	xhttp "StockTrack/pkg/http"
	xlogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Accounts is the identity use case behind the auth routes.
type Accounts interface {
	Signup(ctx context.Context, email, password, name string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Profile(ctx context.Context, userID string) (*models.Profile, error)
}

// AuthEchoHandler serves /api/auth.
type AuthEchoHandler struct {
	logger   *xlogger.Logger
	metrics  repository.Metrics
	accounts Accounts
	tokens   middleware.TokenVerifier
	limiter  middleware.Limiter
}

func NewAuthEchoHandler(
	logger *xlogger.Logger,
	m repository.Metrics,
	accounts Accounts,
	tokens middleware.TokenVerifier,
	limiter middleware.Limiter,
) *AuthEchoHandler {
	if m == nil {
		m = metrics.Nop{}
	}
	return &AuthEchoHandler{logger: logger, metrics: m, accounts: accounts, tokens: tokens, limiter: limiter}
}

func (h *AuthEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/auth")

	var public []echo.MiddlewareFunc
	if h.limiter != nil {
		public = append(public, middleware.RateLimit(h.limiter))
	}
	g.POST("/signup", h.Signup, public...)
	g.POST("/login", h.Login, public...)
	g.GET("/profile", h.Profile, middleware.RequireAuth(h.tokens))
}

func (h *AuthEchoHandler) Signup(c echo.Context) error {
	req := &models.SignupRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return failure(c, h.logger, h.metrics, "signup", err)
	}

	token, err := h.accounts.Signup(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return failure(c, h.logger, h.metrics, "signup", err)
	}
	return xhttp.CreatedResponse(c, models.Token{Token: token})
}

func (h *AuthEchoHandler) Login(c echo.Context) error {
	req := &models.LoginRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return failure(c, h.logger, h.metrics, "login", err)
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return failure(c, h.logger, h.metrics, "login", err)
	}
	return xhttp.SuccessResponse(c, models.Token{Token: token})
}

func (h *AuthEchoHandler) Profile(c echo.Context) error {
	p, err := h.accounts.Profile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return failure(c, h.logger, h.metrics, "profile", err)
	}
	return xhttp.SuccessResponse(c, p)
}
