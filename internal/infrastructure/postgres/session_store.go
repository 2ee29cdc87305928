package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-task-manager/internal/domain/repository"
)

// SessionStore keeps the refresh-token hash in users.hashed_refresh_token.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Save(ctx context.Context, userID, hash string) error {
	res, err := s.pool.Exec(ctx, `
		UPDATE users SET hashed_refresh_token = $2, updated_at = now()
		WHERE id = $1
	`, userID, hash)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, userID string) (string, error) {
	var hash *string
	err := s.pool.QueryRow(ctx, `SELECT hashed_refresh_token FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	if hash == nil {
		return "", nil
	}
	return *hash, nil
}

// Swap is a single conditional UPDATE, so the row lock decides concurrent rotations.
func (s *SessionStore) Swap(ctx context.Context, userID, prev, next string) (bool, error) {
	res, err := s.pool.Exec(ctx, `
		UPDATE users SET hashed_refresh_token = $3, updated_at = now()
		WHERE id = $1 AND hashed_refresh_token = $2
	`, userID, prev, next)
	if err != nil {
		return false, err
	}
	return res.RowsAffected() == 1, nil
}

func (s *SessionStore) Clear(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET hashed_refresh_token = NULL, updated_at = now()
		WHERE id = $1 AND hashed_refresh_token IS NOT NULL
	`, userID)
	return err
}

// SlotOnUserRow marks that UserRepository already loads the slot.
func (s *SessionStore) SlotOnUserRow() {}

var (
	_ repository.SessionStore = (*SessionStore)(nil)
	_ repository.UserRowSlot  = (*SessionStore)(nil)
)
