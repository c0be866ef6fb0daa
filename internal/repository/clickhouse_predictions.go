package repository

import (
	"context"
	"database/sql"
	"fmt"

	"StockTrack/internal/domain/models"
	"StockTrack/pkg/clickhouse"
)

// ClickHousePredictions implements PredictionRepository on a MergeTree table.
// Rows are only ever inserted.
type ClickHousePredictions struct {
	db    *sql.DB
	table string
}

func NewClickHousePredictions(db *sql.DB, table string) *ClickHousePredictions {
	return &ClickHousePredictions{db: db, table: table}
}

// Init creates the table if it does not exist.
func (s *ClickHousePredictions) Init(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id              String,
    user_id         String,
    ticker          LowCardinality(String),
    current_price   Float64,
    predicted_price Float64,
    model_used      String,
    ts              DateTime64(3, 'UTC')
) ENGINE = MergeTree
ORDER BY (user_id, ts)`, s.table)
	return clickhouse.InitSchema(ctx, s.db, []string{ddl})
}

func (s *ClickHousePredictions) Insert(ctx context.Context, p *models.PredictionRecord) error {
	q := fmt.Sprintf("INSERT INTO %s (id, user_id, ticker, current_price, predicted_price, model_used, ts) VALUES (?, ?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		p.ID,
		p.UserID,
		p.Ticker,
		p.CurrentPrice,
		p.PredictedPrice,
		p.ModelUsed,
		p.Timestamp.UTC(),
	)
	return err
}

func (s *ClickHousePredictions) ListByUser(ctx context.Context, userID string) ([]models.PredictionRecord, error) {
	q := fmt.Sprintf("SELECT id, user_id, ticker, current_price, predicted_price, model_used, ts FROM %s WHERE user_id = ? ORDER BY ts DESC, id DESC", s.table)
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]models.PredictionRecord, 0)
	for rows.Next() {
		var p models.PredictionRecord
		if err := rows.Scan(&p.ID, &p.UserID, &p.Ticker, &p.CurrentPrice, &p.PredictedPrice, &p.ModelUsed, &p.Timestamp); err != nil {
			return nil, err
		}
		records = append(records, p)
	}
	return records, rows.Err()
}
