package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hotelreserve/hrs-backend/config"
	"github.com/hotelreserve/hrs-backend/internal/domain/entity"
	repo "github.com/hotelreserve/hrs-backend/internal/domain/repository"
	"github.com/hotelreserve/hrs-backend/pkg/helpers"
	"github.com/hotelreserve/hrs-backend/pkg/mailer"
	tpl "github.com/hotelreserve/hrs-backend/pkg/mailer/templates"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotAllowed     = errors.New("role not allowed")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidOldPassword = errors.New("old password is incorrect")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// AuthService orchestrates login, password change, and the forgot/reset flow.
type AuthService struct {
	Users  repo.UserRepository
	Resets repo.ResetTokenRepository
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
	Cfg    *config.Config
}

func NewAuthService(users repo.UserRepository, resets repo.ResetTokenRepository, jwt *helpers.JWTManager, pub *helpers.RabbitPublisher, logger *logrus.Logger, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Resets: resets, JWT: jwt, Pub: pub, Logger: logger, Cfg: cfg}
}

// LoginResult carries everything a login endpoint returns. User is
// sanitized; IsDefaultPassword tells the client to force a password change.
type LoginResult struct {
	User              *entity.User
	Token             string
	TokenExpiry       time.Time
	IsDefaultPassword bool
}

// Login verifies email/password against the active-user record and issues a
// session token. allowed restricts which roles may use the calling portal;
// a role outside the set fails with ErrRoleNotAllowed. Absent, inactive, and
// wrong-password cases all collapse into ErrInvalidCredentials so responses
// cannot be used to probe which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string, allowed ...entity.Role) (*LoginResult, error) {
	u, err := s.Users.GetActiveByEmail(email)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithField("email", email).Warn("login: user not found or inactive")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.Logger.WithError(err).WithField("email", email).Error("login: user lookup failed")
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		s.Logger.WithField("email", email).Warn("login: password mismatch")
		return nil, ErrInvalidCredentials
	}
	if len(allowed) > 0 && !u.Role.In(allowed...) {
		s.Logger.WithFields(logrus.Fields{"email": email, "role": u.Role}).Warn("login: role not allowed for portal")
		return nil, ErrRoleNotAllowed
	}

	// Checked against the stored hash, not a persisted flag, so accounts
	// reset back to the default password are caught too.
	isDefault := helpers.CompareHashAndPassword(u.Password, s.Cfg.DefaultPassword)

	token, exp, err := s.JWT.GenerateSessionToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("login: session token generation failed")
		return nil, err
	}

	return &LoginResult{User: u.Sanitized(), Token: token, TokenExpiry: exp, IsDefaultPassword: isDefault}, nil
}

// ChangePassword verifies the old password and replaces the stored hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.Users.GetByIDWithPassword(userID)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithField("user_id", userID).Error("change password: user not found")
		return ErrUserNotFound
	}
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("change password: user lookup failed")
		return err
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		s.Logger.WithField("email", u.Email).Warn("change password: old password mismatch")
		return ErrInvalidOldPassword
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(u.ID, hash, false); err != nil {
		return err
	}

	s.Logger.WithField("email", u.Email).Info("password changed")
	return nil
}

// RequestPasswordReset issues a fresh reset token for the account behind
// email and mails out the reset link. An unknown email is logged and
// swallowed so the endpoint cannot disclose account existence. Issuing a new
// token invalidates all earlier ones for the user.
//
// The email is dispatched fail-open: the token row is committed first, and a
// publish failure is only logged. A user whose email never arrives simply
// requests another reset.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(email)
	if errors.Is(err, repo.ErrNotFound) {
		s.Logger.WithField("email", email).Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		s.Logger.WithError(err).WithField("email", email).Error("password reset: user lookup failed")
		return err
	}

	token, _, err := s.JWT.GenerateResetToken(u.ID)
	if err != nil {
		return err
	}

	if err := s.Resets.DeleteAllForUser(u.ID); err != nil {
		return err
	}
	if err := s.Resets.Create(&entity.PasswordResetToken{UserID: u.ID, Token: token}); err != nil {
		return err
	}

	s.enqueueResetEmail(ctx, u, token)
	s.Logger.WithField("email", u.Email).Info("password reset token issued")
	return nil
}

// ResetPassword consumes a reset token and sets the new password. The token
// must both verify against the reset secret and still exist in the store;
// a consumed, superseded, expired, or never-issued token fails identically.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.JWT.ParseResetToken(token)
	if err != nil {
		s.Logger.WithError(err).Warn("reset password: token verification failed")
		return ErrInvalidResetToken
	}

	if _, err := s.Resets.GetByToken(token); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithField("user_id", claims.UserID).Warn("reset password: token not found or expired")
			return ErrInvalidResetToken
		}
		s.Logger.WithError(err).WithField("user_id", claims.UserID).Error("reset password: token lookup failed")
		return err
	}

	u, err := s.Users.GetByID(claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}

	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Users.UpdatePassword(u.ID, hash, false); err != nil {
		return err
	}

	// Single use: remove the consumed row.
	if err := s.Resets.DeleteByToken(token); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("reset password: consumed token cleanup failed")
	}

	s.Logger.WithField("email", u.Email).Info("password reset completed")
	return nil
}

func (s *AuthService) enqueueResetEmail(ctx context.Context, u *entity.User, token string) {
	if s.Pub == nil || !s.Cfg.MailSendEnabled {
		return
	}
	link := s.Cfg.ResetPasswordURL + "?token=" + token
	data := tpl.EmailData{
		Name:          u.Name,
		Email:         u.Email,
		CompanyName:   s.Cfg.CompanyName,
		AppName:       s.Cfg.AppName,
		LogoURL:       s.Cfg.LogoURL,
		SupportURL:    s.Cfg.SupportURL,
		ResetURL:      link,
		ExpiresInText: formatTTL(s.Cfg.ResetTTL),
	}
	job := mailer.EmailJob{To: u.Email, Template: tpl.ResetPassword, Data: tpl.ToMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Error("reset email enqueue failed")
	}
}

// formatTTL renders a duration the way email copy expects ("1 hour",
// "30 minutes") instead of Go's "1h0m0s".
func formatTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		h := int(d.Hours())
		if h == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", h)
	}
	if d >= time.Minute {
		return fmt.Sprintf("%d minutes", int(d.Minutes()))
	}
	return d.String()
}
