package api

import (
	"context"
	"net/http"
	"time"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/middleware"
	"StockTrack/pkg/errs"
	xlogger "StockTrack/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// StreamConfig controls the watchlist websocket.
type StreamConfig struct {
	Interval     time.Duration
	PingInterval time.Duration
	WriteTimeout time.Duration
	// CheckOrigin defaults to accepting every origin; CORS is enforced on the REST routes.
	CheckOrigin func(r *http.Request) bool
}

func (s StreamConfig) withDefaults() StreamConfig {
	if s.Interval <= 0 {
		s.Interval = 15 * time.Second
	}
	if s.PingInterval <= 0 {
		s.PingInterval = 30 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 10 * time.Second
	}
	if s.CheckOrigin == nil {
		s.CheckOrigin = func(*http.Request) bool { return true }
	}
	return s
}

// WatchlistStream upgrades to a websocket and pushes the enriched watchlist
// every Interval until the client goes away.
func (h *StocksEchoHandler) WatchlistStream(c echo.Context) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.stream.CheckOrigin,
	}
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake error.
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	userID := middleware.UserID(c)
	log := h.logger.With(xlogger.String("user_id", userID))
	log.Debug("watchlist stream opened")

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// The read loop only exists to see close frames and pongs.
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(2 * h.stream.PingInterval))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(2 * h.stream.PingInterval))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	push := time.NewTicker(h.stream.Interval)
	defer push.Stop()
	ping := time.NewTicker(h.stream.PingInterval)
	defer ping.Stop()

	if err := h.pushWatchlist(ctx, conn, userID); err != nil {
		log.Debug("watchlist stream closed", xlogger.Error(err))
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug("watchlist stream closed")
			return nil
		case <-push.C:
			if err := h.pushWatchlist(ctx, conn, userID); err != nil {
				log.Debug("watchlist stream closed", xlogger.Error(err))
				return nil
			}
		case <-ping.C:
			deadline := time.Now().Add(h.stream.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return nil
			}
		}
	}
}

// pushWatchlist writes one frame. Use case failures are sent as error frames,
// only write failures end the stream.
func (h *StocksEchoHandler) pushWatchlist(ctx context.Context, conn *websocket.Conn, userID string) error {
	frame := models.StreamFrame{Type: models.FrameWatchlist, At: time.Now().UTC()}

	items, err := h.stocks.ListWatchlist(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		kind := errs.KindOf(err)
		h.metrics.RecordError(kind.String())
		frame.Type = models.FrameError
		frame.Error = "Error fetching watchlist"
		if e, ok := errs.As(err); ok && kind != errs.Internal {
			frame.Error = e.Message
		}
	} else {
		if items == nil {
			items = []models.WatchlistItem{}
		}
		frame.Items = items
	}

	if err := conn.SetWriteDeadline(time.Now().Add(h.stream.WriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(frame)
}
