// Package prediction is the gateway to the external ML service.
package prediction

import (
	"context"
	"encoding/json"
	"fmt"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	domsvc "StockTrack/internal/domain/service"
	"StockTrack/pkg/errs"
	xhttp "StockTrack/pkg/http"
	"StockTrack/pkg/metrics"
)

const serviceName = "prediction"

type Client struct {
	base *HTTPServiceBase
}

// NewClient builds the gateway. m may be nil.
func NewClient(baseURL string, httpClient *xhttp.Client, m repository.Metrics) *Client {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Client{base: NewHTTPServiceBase(baseURL, httpClient, m)}
}

type tickerReq struct {
	Ticker string `json:"ticker"`
}

type predictReq struct {
	Ticker string `json:"ticker"`
	Model  string `json:"model"`
}

type predictResp struct {
	Ticker         string   `json:"ticker"`
	CurrentPrice   *float64 `json:"current_price"`
	PredictedPrice *float64 `json:"predicted_price"`
	ModelUsed      string   `json:"model_used"`
}

// Predict asks the service for a price forecast. The model reported by the
// service wins over the requested one (it may have fallen back).
func (c *Client) Predict(ctx context.Context, ticker, model string) (models.Forecast, error) {
	var pr predictResp
	if err := c.base.PostJSON(ctx, "/predict", predictReq{Ticker: ticker, Model: model}, &pr); err != nil {
		return models.Forecast{}, errs.Wrap(errs.Upstream, "Prediction failed", err)
	}
	if pr.CurrentPrice == nil || pr.PredictedPrice == nil {
		return models.Forecast{}, errs.Wrap(errs.Upstream, "Prediction failed", fmt.Errorf("prediction response missing prices"))
	}

	f := models.Forecast{
		Ticker:         ticker,
		CurrentPrice:   *pr.CurrentPrice,
		PredictedPrice: *pr.PredictedPrice,
		ModelUsed:      pr.ModelUsed,
	}
	if f.ModelUsed == "" {
		f.ModelUsed = model
	}
	return f, nil
}

// Sentiment returns the service's sentiment document untouched.
func (c *Client) Sentiment(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.passThrough(ctx, "/sentiment", ticker, "Error fetching sentiment")
}

// Simulate returns the trading simulation report untouched.
func (c *Client) Simulate(ctx context.Context, ticker string) (json.RawMessage, error) {
	return c.passThrough(ctx, "/simulate", ticker, "Error running simulation")
}

func (c *Client) passThrough(ctx context.Context, path, ticker, failMsg string) (json.RawMessage, error) {
	var raw []byte
	if err := c.base.PostJSON(ctx, path, tickerReq{Ticker: ticker}, &raw); err != nil {
		return nil, errs.Wrap(errs.Upstream, failMsg, err)
	}
	if !json.Valid(raw) {
		return nil, errs.Wrap(errs.Upstream, failMsg, fmt.Errorf("%s returned invalid json", path))
	}
	return json.RawMessage(raw), nil
}

var _ domsvc.Predictor = (*Client)(nil)
