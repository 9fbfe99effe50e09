package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTManager signs and verifies the two bearer-token kinds the backend hands
// out: session tokens ({id, email, role}) and password-reset tokens ({id}).
// Each kind has its own secret and TTL so a leaked secret never extends to
// the other and expiry policies stay independent.
type JWTManager struct {
	SessionSecret []byte
	ResetSecret   []byte
	SessionTTL    time.Duration
	ResetTTL      time.Duration
}

func NewJWTManager(sessionSecret, resetSecret string, sessionTTL, resetTTL time.Duration) *JWTManager {
	return &JWTManager{
		SessionSecret: []byte(sessionSecret),
		ResetSecret:   []byte(resetSecret),
		SessionTTL:    sessionTTL,
		ResetTTL:      resetTTL,
	}
}

// SessionClaims assert an authenticated identity and role.
type SessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// ResetClaims authorize a password reset for a single user.
type ResetClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

func (m *JWTManager) GenerateSessionToken(userID, email, role string) (string, time.Time, error) {
	exp := time.Now().Add(m.SessionTTL)
	claims := &SessionClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.SessionSecret)
	return s, exp, err
}

func (m *JWTManager) GenerateResetToken(userID string) (string, time.Time, error) {
	exp := time.Now().Add(m.ResetTTL)
	// The token string doubles as the stored row's unique key, so a jti
	// keeps two tokens issued within the same second distinct.
	claims := &ResetClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ID:        uuid.NewString(),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.ResetSecret)
	return s, exp, err
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parseInto(tokenStr, m.SessionSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *JWTManager) ParseResetToken(tokenStr string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if err := parseInto(tokenStr, m.ResetSecret, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func parseInto(tokenStr string, secret []byte, claims jwt.Claims) error {
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return err
	}
	if !tkn.Valid {
		return errors.New("invalid token")
	}
	return nil
}
