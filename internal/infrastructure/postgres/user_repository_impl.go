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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, role, status, is_default_password)
		VALUES ($1, LOWER($2), $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Role, u.Status, u.IsDefaultPassword)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	return r.getOne(`
		SELECT id, name, email, '' AS password_hash, role, status, is_default_password, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

func (r *UserRepository) GetByIDWithPassword(id string) (*entity.User, error) {
	return r.getOne(`
		SELECT id, name, email, password_hash, role, status, is_default_password, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
}

// GetActiveByEmail matches the email case-insensitively and only returns
// active accounts; the hash is included for credential verification.
func (r *UserRepository) GetActiveByEmail(email string) (*entity.User, error) {
	return r.getOne(`
		SELECT id, name, email, password_hash, role, status, is_default_password, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND status = TRUE
	`, email)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	return r.getOne(`
		SELECT id, name, email, '' AS password_hash, role, status, is_default_password, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
}

func (r *UserRepository) getOne(query string, arg any) (*entity.User, error) {
	ctx := context.Background()
	u := &entity.User{}

	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Status,
		&u.IsDefaultPassword, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return u, nil
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = LOWER($2), role = $3, status = $4, updated_at = $5
		WHERE id = $6
	`, u.Name, u.Email, u.Role, u.Status, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) UpdatePassword(id, hash string, isDefault bool) error {
	ctx := context.Background()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password_hash = $1, is_default_password = $2, updated_at = now()
		WHERE id = $3
	`, hash, isDefault, id)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *UserRepository) ListByRole(role entity.Role) ([]*entity.User, error) {
	ctx := context.Background()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, '' AS password_hash, role, status, is_default_password, created_at, updated_at
		FROM users
		WHERE role = $1
		ORDER BY created_at DESC
	`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		u := &entity.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.Status,
			&u.IsDefaultPassword, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
