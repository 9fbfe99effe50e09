package repository

import "github.com/hotelreserve/hrs-backend/internal/domain/entity"

// UserRepository defines the interface for user-related database operations.
//
// Email lookups compare case-insensitively; the hash-free reads return users
// with an empty Password field so list/read projections never leak it.
type UserRepository interface {
	Create(u *entity.User) error
	// GetByID loads a user without the password hash.
	GetByID(id string) (*entity.User, error)
	// GetByIDWithPassword loads a user including the password hash.
	GetByIDWithPassword(id string) (*entity.User, error)
	// GetActiveByEmail loads an active user, hash included, for credential checks.
	GetActiveByEmail(email string) (*entity.User, error)
	// GetByEmail loads a user regardless of status, without the hash.
	GetByEmail(email string) (*entity.User, error)
	Update(u *entity.User) error
	// UpdatePassword replaces the stored hash and default-password flag.
	UpdatePassword(id, hash string, isDefault bool) error
	ListByRole(role entity.Role) ([]*entity.User, error)
}
