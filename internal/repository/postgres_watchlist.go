package repository

import (
	"context"
	"database/sql"
	"errors"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
)

// PostgresWatchlist implements WatchlistRepository. Uniqueness of
// (user_id, ticker) is enforced by the table constraint.
type PostgresWatchlist struct {
	db *sql.DB
}

func NewPostgresWatchlist(db *sql.DB) *PostgresWatchlist {
	return &PostgresWatchlist{db: db}
}

func (r *PostgresWatchlist) Add(ctx context.Context, e *models.WatchlistEntry) error {
	const q = `INSERT INTO watchlist_entries (id, user_id, ticker, added_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, ticker) DO NOTHING
RETURNING added_at`

	err := r.db.QueryRowContext(ctx, q, e.ID, e.UserID, e.Ticker, e.AddedAt).Scan(&e.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *PostgresWatchlist) Remove(ctx context.Context, userID, id string) (*models.WatchlistEntry, error) {
	const q = `DELETE FROM watchlist_entries
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, ticker, added_at`

	var e models.WatchlistEntry
	err := r.db.QueryRowContext(ctx, q, id, userID).Scan(&e.ID, &e.UserID, &e.Ticker, &e.AddedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *PostgresWatchlist) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	const q = `SELECT id, user_id, ticker, added_at
FROM watchlist_entries
WHERE user_id = $1
ORDER BY added_at, id`

	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.WatchlistEntry, 0)
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Ticker, &e.AddedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
