package repository

import (
	"context"
	"testing"
	"time"

	"StockTrack/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictionsInit(t *testing.T) {
	db, mock := newMock(t)
	store := NewClickHousePredictions(db, "predictions")

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS predictions`).WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, store.Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionsInsert(t *testing.T) {
	db, mock := newMock(t)
	store := NewClickHousePredictions(db, "predictions")
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO predictions \(id, user_id, ticker, current_price, predicted_price, model_used, ts\)`).
		WithArgs("p1", "u1", "AAPL", 190.0, 192.5, "rf", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Insert(context.Background(), &models.PredictionRecord{
		ID: "p1", UserID: "u1", Ticker: "AAPL", CurrentPrice: 190, PredictedPrice: 192.5, ModelUsed: "rf", Timestamp: ts,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPredictionsListNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	store := NewClickHousePredictions(db, "predictions")
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	cols := []string{"id", "user_id", "ticker", "current_price", "predicted_price", "model_used", "ts"}
	mock.ExpectQuery(`FROM predictions WHERE user_id = \? ORDER BY ts DESC`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p2", "u1", "MSFT", 400.0, 401.0, "xgb", t0.Add(time.Hour)).
			AddRow("p1", "u1", "AAPL", 190.0, 192.5, "rf", t0))

	records, err := store.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "p2", records[0].ID)
	assert.True(t, records[0].Timestamp.After(records[1].Timestamp))
}
