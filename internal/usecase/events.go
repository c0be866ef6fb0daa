package usecase

import (
	"context"
	"encoding/json"
	"time"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
	applogger "StockTrack/pkg/logger"
)

// eventSink publishes domain events best-effort: a failed publish is logged
// and counted, never returned to the caller.
type eventSink struct {
	pub     repository.EventPublisher
	metrics repository.Metrics
	logger  *applogger.Logger
	now     func() time.Time
	newID   func() string
}

func (s *eventSink) emit(ctx context.Context, t models.EventType, userID, ticker string, payload interface{}) {
	if s.pub == nil {
		return
	}

	e := &models.Event{
		ID:         s.newID(),
		Type:       t,
		UserID:     userID,
		Ticker:     ticker,
		OccurredAt: s.now().UTC(),
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			s.logger.Warn("event payload encode failed", applogger.String("type", string(t)), applogger.Error(err))
		} else {
			e.Payload = raw
		}
	}

	err := s.pub.Publish(ctx, e)
	s.metrics.RecordEvent(string(t), err)
	if err != nil {
		s.logger.Warn("event publish failed",
			applogger.String("type", string(t)),
			applogger.String("user_id", userID),
			applogger.Error(err))
	}
}
