package models

import "time"

// PredictionRecord is an append-only log line of one prediction request.
type PredictionRecord struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Ticker         string    `json:"ticker"`
	CurrentPrice   float64   `json:"current_price"`
	PredictedPrice float64   `json:"predicted_price"`
	ModelUsed      string    `json:"model_used"`
	Timestamp      time.Time `json:"timestamp"`
}

// Forecast is what the prediction service returns for one ticker.
type Forecast struct {
	Ticker         string
	CurrentPrice   float64
	PredictedPrice float64
	ModelUsed      string
}

type PredictRequest struct {
	Ticker string `json:"ticker" validate:"omitempty,max=16"`
	Model  string `json:"model" validate:"max=16"`
}

type TickerQuery struct {
	Ticker string `query:"ticker" validate:"omitempty,max=16"`
}

type TickerBody struct {
	Ticker string `json:"ticker" validate:"omitempty,max=16"`
}
