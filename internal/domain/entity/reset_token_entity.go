package entity

import "time"

// PasswordResetToken is a single-use, time-boxed credential row authorizing
// exactly one password reset. Token carries the signed string handed out in
// the reset link; the store treats rows past their TTL as absent.
type PasswordResetToken struct {
	ID        string
	UserID    string
	Token     string
	CreatedAt time.Time
}
