package repository

import (
	"context"
	"errors"
	"time"

	"StockTrack/internal/domain/models"
)

var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate")
)

type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, u *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type WatchlistRepository interface {
	// Add returns ErrDuplicate when (UserID, Ticker) already exists.
	Add(ctx context.Context, e *models.WatchlistEntry) error
	// Remove deletes the entry only if it belongs to userID, else ErrNotFound.
	Remove(ctx context.Context, userID, id string) (*models.WatchlistEntry, error)
	// List returns entries in insertion order.
	List(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
}

type PredictionRepository interface {
	Insert(ctx context.Context, p *models.PredictionRecord) error
	// ListByUser returns records newest first.
	ListByUser(ctx context.Context, userID string) ([]models.PredictionRecord, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e *models.Event) error
	Close() error
}

type Metrics interface {
	ObserveUpstream(service, operation string, d time.Duration, err error)
	RecordError(kind string)
	RecordLastPrice(ticker string, price float64)
	RecordEnrichmentFallback()
	RecordEvent(eventType string, err error)
}
