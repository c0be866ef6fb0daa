package service

import (
	"context"
	"encoding/json"

	"StockTrack/internal/domain/models"
)

// MarketData wraps an external quote/search provider.
type MarketData interface {
	Search(ctx context.Context, query string) ([]models.StockSummary, error)
	Quote(ctx context.Context, ticker string) (models.StockSummary, error)
	Details(ctx context.Context, ticker string) (models.StockDetails, error)
}

// Predictor wraps the external prediction service. Sentiment and Simulate
// results are passed through untouched.
type Predictor interface {
	Predict(ctx context.Context, ticker, model string) (models.Forecast, error)
	Sentiment(ctx context.Context, ticker string) (json.RawMessage, error)
	Simulate(ctx context.Context, ticker string) (json.RawMessage, error)
}
