package repository

import (
	"context"
	"database/sql"
	"errors"

	"StockTrack/internal/domain/models"
	"StockTrack/internal/domain/repository"
)

// PostgresUsers implements UserRepository.
type PostgresUsers struct {
	db *sql.DB
}

func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

func (r *PostgresUsers) Create(ctx context.Context, u *models.User) error {
	const q = `INSERT INTO users (id, name, email, password_hash)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO NOTHING
RETURNING created_at`

	err := r.db.QueryRowContext(ctx, q, u.ID, u.Name, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrDuplicate
	}
	return err
}

func (r *PostgresUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *PostgresUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `SELECT id, name, email, password_hash, created_at FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresUsers) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
