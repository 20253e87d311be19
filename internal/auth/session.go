package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/keyring"
)

type Claims struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(user User) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSessionSecret
	}
	now := s.now()
	claims := Claims{
		UID:      user.UID,
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UID,
			Issuer:    constants.AppName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.SessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) startSession(user User) error {
	token, err := s.issueToken(user)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}
	if err := s.tokens.Set(token); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *Service) parseToken(raw string) (User, error) {
	if len(s.secret) == 0 {
		return User{}, apperrors.NewAuthError(apperrors.CodeNoCurrentUser, ErrNoSessionSecret)
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return User{}, apperrors.NewAuthError(apperrors.CodeSessionExpired, err)
		}
		return User{}, apperrors.NewAuthError(apperrors.CodeNoCurrentUser, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return User{}, apperrors.NewAuthError(apperrors.CodeNoCurrentUser, nil)
	}
	return User{UID: claims.UID, Username: claims.Username, Email: claims.Email}, nil
}

// MemoryTokens keeps the session in process memory. It is used when no OS
// keyring is reachable, so the session ends with the process.
type MemoryTokens struct {
	mu    sync.Mutex
	token string
}

func (m *MemoryTokens) Get() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", keyring.ErrNotFound
	}
	return m.token, nil
}

func (m *MemoryTokens) Set(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryTokens) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
