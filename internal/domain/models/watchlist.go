package models

import "time"

// UnknownName replaces a display name the market data provider could not resolve.
const UnknownName = "Unknown"

// WatchlistEntry is one ticker on a user's watchlist. (UserID, Ticker) is unique.
type WatchlistEntry struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"addedAt"`
}

// WatchlistItem is an entry enriched with live market data.
type WatchlistItem struct {
	WatchlistEntry
	Name          string   `json:"name"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
}

type AddWatchlistRequest struct {
	Ticker string `json:"ticker" validate:"omitempty,max=16"`
}

type RemoveWatchlistRequest struct {
	StockID string `json:"stockId" validate:"max=64"`
}

type AddWatchlistResponse struct {
	Message       string         `json:"message"`
	WatchlistItem WatchlistEntry `json:"watchlistItem"`
}

type RemoveWatchlistResponse struct {
	Message string         `json:"message"`
	Removed WatchlistEntry `json:"removed"`
}

const (
	FrameWatchlist = "watchlist"
	FrameError     = "error"
)

// StreamFrame is one message on the watchlist websocket.
type StreamFrame struct {
	Type  string          `json:"type"`
	Items []WatchlistItem `json:"items"`
	Error string          `json:"error,omitempty"`
	At    time.Time       `json:"at"`
}
