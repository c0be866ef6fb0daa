package models

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventUserRegistered     EventType = "user.registered"
	EventWatchlistAdded     EventType = "watchlist.added"
	EventWatchlistRemoved   EventType = "watchlist.removed"
	EventPredictionRecorded EventType = "prediction.recorded"
)

// Event is a domain fact published after a successful write.
type Event struct {
	ID         string          `json:"id"`
	Type       EventType       `json:"type"`
	UserID     string          `json:"userId"`
	Ticker     string          `json:"ticker,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}
