// Package auth is the identity adapter: username/secret accounts stored by
// the provider, with a signed session token kept between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/julianstephens/routinelog/internal/constants"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/keyring"
	"github.com/julianstephens/routinelog/internal/logger"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/storage"
	"github.com/julianstephens/routinelog/internal/validation"
)

// Accounts stores credential records.
type Accounts interface {
	CreateAccount(ctx context.Context, account models.Account) (string, error)
	GetAccountByEmail(ctx context.Context, email string) (models.Account, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// Profiles owns the user data tied to an account.
type Profiles interface {
	CreateUserProfile(ctx context.Context, profile models.UserProfile) error
	DeleteAllUserData(ctx context.Context, uid string) error
}

// TokenStore persists the session token.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Delete() error
}

// User is the signed-in identity.
type User struct {
	UID      string
	Username string
	Email    string
}

// ErrNoSessionSecret is returned by every session operation of a service
// built without a signing key.
var ErrNoSessionSecret = errors.New("no session secret configured")

type Service struct {
	accounts Accounts
	profiles Profiles
	tokens   TokenStore
	secret   []byte
	cost     int
	now      func() time.Time
	limiter  *limiter
}

type Option func(*Service)

// WithBcryptCost sets the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService signs sessions with secret. An empty secret leaves the service
// unable to sign in anyone.
func NewService(accounts Accounts, profiles Profiles, tokens TokenStore, secret string, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		profiles: profiles,
		tokens:   tokens,
		secret:   []byte(secret),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.limiter = newLimiter(constants.MaxFailedLogins, constants.FailedLoginWindow, s.now)
	return s
}

// Identifier maps a username to the email-shaped identifier accounts are
// keyed by. Usernames are not real addresses.
func Identifier(username string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "@" + constants.IdentityDomain
}

func (s *Service) Register(ctx context.Context, username, secret string) (User, error) {
	if len(s.secret) == 0 {
		return User{}, ErrNoSessionSecret
	}
	username = strings.TrimSpace(username)
	if err := validation.Username(username); err != nil {
		return User{}, apperrors.NewAuthError(apperrors.CodeInvalidEmail, err)
	}
	if len(secret) < constants.MinSecretLength {
		return User{}, apperrors.NewAuthError(apperrors.CodeWeakPassword, nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return User{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	email := Identifier(username)
	uid, err := s.accounts.CreateAccount(ctx, models.Account{Email: email, PasswordHash: string(hash)})
	if errors.Is(err, storage.ErrConflict) {
		return User{}, apperrors.NewAuthError(apperrors.CodeEmailInUse, nil)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.profiles.CreateUserProfile(ctx, models.UserProfile{UID: uid, Username: username}); err != nil {
		// Leave no account without a profile behind.
		if delErr := s.accounts.DeleteAccount(ctx, uid); delErr != nil {
			logger.Warn("Failed to remove account after profile error", "uid", uid, "error", delErr)
		}
		if errors.Is(err, storage.ErrConflict) {
			return User{}, apperrors.NewAuthError(apperrors.CodeEmailInUse, err)
		}
		return User{}, err
	}

	user := User{UID: uid, Username: username, Email: email}
	if err := s.startSession(user); err != nil {
		return User{}, err
	}
	logger.Info("Registered account", "uid", uid)
	return user, nil
}

func (s *Service) Login(ctx context.Context, username, secret string) (User, error) {
	if len(s.secret) == 0 {
		return User{}, ErrNoSessionSecret
	}
	email := Identifier(username)
	if !s.limiter.allow(email) {
		return User{}, apperrors.NewAuthError(apperrors.CodeTooManyRequests, nil)
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		s.limiter.fail(email)
		return User{}, apperrors.NewAuthError(apperrors.CodeInvalidCredential, nil)
	}
	if err != nil {
		return User{}, fmt.Errorf("failed to look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)); err != nil {
		s.limiter.fail(email)
		return User{}, apperrors.NewAuthError(apperrors.CodeInvalidCredential, nil)
	}
	s.limiter.reset(email)

	user := User{UID: account.UID, Username: strings.TrimSpace(username), Email: email}
	if err := s.startSession(user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) Logout() error {
	return s.tokens.Delete()
}

// CurrentUser returns the user of the stored session.
func (s *Service) CurrentUser() (User, error) {
	token, err := s.tokens.Get()
	if errors.Is(err, keyring.ErrNotFound) {
		return User{}, apperrors.NewAuthError(apperrors.CodeNoCurrentUser, nil)
	}
	if err != nil {
		return User{}, err
	}
	return s.parseToken(token)
}

// DeleteAccount re-authenticates, then removes the user's data, the
// credential and the session.
func (s *Service) DeleteAccount(ctx context.Context, username, secret string) error {
	email := Identifier(username)
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return apperrors.NewAuthError(apperrors.CodeUserNotFound, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to look up account: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)); err != nil {
		return apperrors.NewAuthError(apperrors.CodeWrongPassword, nil)
	}

	if err := s.profiles.DeleteAllUserData(ctx, account.UID); err != nil {
		return err
	}
	if err := s.accounts.DeleteAccount(ctx, account.UID); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	logger.Info("Deleted account", "uid", account.UID)
	return s.tokens.Delete()
}
