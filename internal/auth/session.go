package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when the session token is malformed or forged.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the session token has expired.
	ErrExpiredToken = errors.New("token has expired")
)

const (
	sessionSubject = "admin"
	sessionIssuer  = "docvault"
)

// SessionManager issues and validates HS256 admin session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a SessionManager. An empty secret is replaced by a
// random one, which invalidates sessions across restarts.
func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionManager{secret: key, ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue returns a signed session token and its expiration.
func (m *SessionManager) Issue() (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   sessionSubject,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate checks signature, expiry and subject of a session token.
func (m *SessionManager) Validate(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithSubject(sessionSubject),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrExpiredToken
		}
		return ErrInvalidToken
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
