package api

import (
	"context"
	"encoding/json"
	"net/http"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	"StockTrack/internal/middleware"
	xhttp "StockTrack/pkg/http"
	xlogger "StockTrack/pkg/logger"
	"StockTrack/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// Stocks is the aggregation use case behind the stock routes.
type Stocks interface {
	AddToWatchlist(ctx context.Context, userID, ticker string) (*models.WatchlistEntry, error)
	RemoveFromWatchlist(ctx context.Context, userID, entryID string) (*models.WatchlistEntry, error)
	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistItem, error)
	RequestPrediction(ctx context.Context, userID, ticker, model string) (*models.PredictionRecord, error)
	ListPredictions(ctx context.Context, userID string) ([]models.PredictionRecord, error)
	SearchStocks(ctx context.Context, query string) ([]models.StockSummary, error)
	Trending(ctx context.Context) ([]models.StockSummary, error)
	MarketOverview(ctx context.Context) ([]models.StockSummary, error)
	StockDetails(ctx context.Context, ticker string) (*models.StockDetails, error)
	Sentiment(ctx context.Context, ticker string) (json.RawMessage, error)
	Simulate(ctx context.Context, ticker string) (json.RawMessage, error)
}

// StocksEchoHandler serves /api/stocks.
type StocksEchoHandler struct {
	logger  *xlogger.Logger
	metrics repository.Metrics
	stocks  Stocks
	tokens  middleware.TokenVerifier
	stream  StreamConfig
}

func NewStocksEchoHandler(
	logger *xlogger.Logger,
	m repository.Metrics,
	stocks Stocks,
	tokens middleware.TokenVerifier,
	stream StreamConfig,
) *StocksEchoHandler {
	if m == nil {
		m = metrics.Nop{}
	}
	return &StocksEchoHandler{logger: logger, metrics: m, stocks: stocks, tokens: tokens, stream: stream.withDefaults()}
}

func (h *StocksEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/stocks")
	auth := middleware.RequireAuth(h.tokens)

	g.GET("/search", h.Search)

	g.POST("/predict", h.Predict, auth)
	g.GET("/predictions", h.Predictions, auth)
	g.POST("/watchlist/add", h.AddToWatchlist, auth)
	g.POST("/watchlist/remove", h.RemoveFromWatchlist, auth)
	g.GET("/watchlist", h.Watchlist, auth)
	g.GET("/watchlist/stream", h.WatchlistStream, middleware.RequireAuth(h.tokens, middleware.AllowQueryToken("token")))
	g.GET("/sentiment", h.Sentiment, auth)
	g.POST("/simulate", h.Simulate, auth)
	g.GET("/trending", h.Trending, auth)
	g.GET("/overview", h.Overview, auth)
	g.GET("/stock-details", h.StockDetails, auth)
}

func (h *StocksEchoHandler) fail(c echo.Context, op string, err error) error {
	return failure(c, h.logger, h.metrics, op, err)
}

func (h *StocksEchoHandler) Search(c echo.Context) error {
	req := &models.SearchQuery{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "search", err)
	}

	stocks, err := h.stocks.SearchStocks(c.Request().Context(), req.Query)
	if err != nil {
		return h.fail(c, "search", err)
	}
	return xhttp.SuccessResponse(c, models.SearchResponse{Stocks: stocks})
}

func (h *StocksEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "predict", err)
	}

	rec, err := h.stocks.RequestPrediction(c.Request().Context(), middleware.UserID(c), req.Ticker, req.Model)
	if err != nil {
		return h.fail(c, "predict", err)
	}
	return xhttp.SuccessResponse(c, rec)
}

func (h *StocksEchoHandler) Predictions(c echo.Context) error {
	records, err := h.stocks.ListPredictions(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "predictions", err)
	}
	if records == nil {
		records = []models.PredictionRecord{}
	}
	return xhttp.SuccessResponse(c, records)
}

func (h *StocksEchoHandler) AddToWatchlist(c echo.Context) error {
	req := &models.AddWatchlistRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "watchlist_add", err)
	}

	entry, err := h.stocks.AddToWatchlist(c.Request().Context(), middleware.UserID(c), req.Ticker)
	if err != nil {
		return h.fail(c, "watchlist_add", err)
	}
	return xhttp.SuccessResponse(c, models.AddWatchlistResponse{
		Message:       "Stock added to watchlist",
		WatchlistItem: *entry,
	})
}

func (h *StocksEchoHandler) RemoveFromWatchlist(c echo.Context) error {
	req := &models.RemoveWatchlistRequest{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "watchlist_remove", err)
	}

	removed, err := h.stocks.RemoveFromWatchlist(c.Request().Context(), middleware.UserID(c), req.StockID)
	if err != nil {
		return h.fail(c, "watchlist_remove", err)
	}
	return xhttp.SuccessResponse(c, models.RemoveWatchlistResponse{
		Message: "Stock removed from watchlist",
		Removed: *removed,
	})
}

func (h *StocksEchoHandler) Watchlist(c echo.Context) error {
	items, err := h.stocks.ListWatchlist(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return h.fail(c, "watchlist", err)
	}
	return xhttp.SuccessResponse(c, items)
}

func (h *StocksEchoHandler) Sentiment(c echo.Context) error {
	req := &models.TickerQuery{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "sentiment", err)
	}

	raw, err := h.stocks.Sentiment(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "sentiment", err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

func (h *StocksEchoHandler) Simulate(c echo.Context) error {
	req := &models.TickerBody{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "simulate", err)
	}

	raw, err := h.stocks.Simulate(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "simulate", err)
	}
	return c.JSONBlob(http.StatusOK, raw)
}

func (h *StocksEchoHandler) Trending(c echo.Context) error {
	stocks, err := h.stocks.Trending(c.Request().Context())
	if err != nil {
		return h.fail(c, "trending", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, stocks)
}

func (h *StocksEchoHandler) Overview(c echo.Context) error {
	stocks, err := h.stocks.MarketOverview(c.Request().Context())
	if err != nil {
		return h.fail(c, "overview", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, stocks)
}

func (h *StocksEchoHandler) StockDetails(c echo.Context) error {
	req := &models.TickerQuery{}
	if err := xhttp.ReadAndValidateRequest(c, req); err != nil {
		return h.fail(c, "stock_details", err)
	}

	d, err := h.stocks.StockDetails(c.Request().Context(), req.Ticker)
	if err != nil {
		return h.fail(c, "stock_details", err)
	}
	return xhttp.SuccessResponse(c, models.StockDetailsResponse{StockDetails: *d})
}
