package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	"github.com/hotelreserve/hrs-backend/internal/domain/repository"
)

// ResetTokenRepository persists single-use password-reset tokens. Rows older
// than ttl are treated as absent on lookup; a periodic sweep is unnecessary
// for correctness, expiry is enforced in the query itself.
type ResetTokenRepository struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

func NewResetTokenRepository(pool *pgxpool.Pool, ttl time.Duration) *ResetTokenRepository {
	return &ResetTokenRepository{pool: pool, ttl: ttl}
}

func (r *ResetTokenRepository) Create(t *entity.PasswordResetToken) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO password_reset_tokens (user_id, token)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, t.UserID, t.Token)

	return row.Scan(&t.ID, &t.CreatedAt)
}

func (r *ResetTokenRepository) GetByToken(token string) (*entity.PasswordResetToken, error) {
	ctx := context.Background()
	t := &entity.PasswordResetToken{}

	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, token, created_at
		FROM password_reset_tokens
		WHERE token = $1 AND created_at > now() - make_interval(secs => $2)
	`, token, r.ttl.Seconds())

	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

func (r *ResetTokenRepository) DeleteByToken(token string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE token = $1`, token)
	return err
}

func (r *ResetTokenRepository) DeleteAllForUser(userID string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID)
	return err
}

var _ repository.ResetTokenRepository = (*ResetTokenRepository)(nil)
