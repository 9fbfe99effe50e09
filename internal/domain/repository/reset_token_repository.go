package repository

import "github.com/hotelreserve/hrs-backend/internal/domain/entity"

// ResetTokenRepository defines the interface for persisted password-reset
// tokens. At most one token per user is active: Create is always preceded by
// DeleteAllForUser. GetByToken must not return rows past their TTL; an
// expired row behaves exactly like an absent one.
type ResetTokenRepository interface {
	Create(t *entity.PasswordResetToken) error
	GetByToken(token string) (*entity.PasswordResetToken, error)
	DeleteByToken(token string) error
	DeleteAllForUser(userID string) error
}
