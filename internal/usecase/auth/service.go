// Package auth implements account registration, sign-in, and
// bearer-token session management.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/account"
)

// MinPasswordLen is the minimum accepted password length.
const MinPasswordLen = 6

// Session is an issued bearer-token session.
type Session struct {
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service handles account and session operations.
type Service struct {
	users      UserRepository
	sessions   SessionRepository
	sessionTTL time.Duration
}

// New creates an auth service.
func New(users UserRepository, sessions SessionRepository, sessionTTL time.Duration) *Service {
	return &Service{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

// SignUp registers a new account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" || email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: name, email, and password required", domain.ErrInvalidInput)
	}
	if !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	if len(password) < MinPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters",
			domain.ErrInvalidInput, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	acc := account.Account{Name: name, Email: email, CreatedAt: time.Now().UTC()}
	if err := s.users.Create(ctx, acc, string(hash)); err != nil {
		return Session{}, err
	}

	return s.openSession(ctx, acc)
}

// SignIn verifies credentials and opens a session.
// Unknown accounts and wrong passwords both map to ErrInvalidCredentials.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("%w: email and password required", domain.ErrInvalidInput)
	}

	acc, hash, err := s.users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, domain.ErrInvalidCredentials
		}
		return Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Session{}, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, acc)
}

// SignOut closes a session. Closing an unknown session is not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token required", domain.ErrInvalidInput)
	}
	return s.sessions.Delete(ctx, token)
}

// Verify resolves a session token to its account email.
func (s *Service) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrSessionExpired
	}
	return s.sessions.Email(ctx, token)
}

// Me resolves a session token to its account.
func (s *Service) Me(ctx context.Context, token string) (account.Account, error) {
	email, err := s.Verify(ctx, token)
	if err != nil {
		return account.Account{}, err
	}

	acc, _, err := s.users.Get(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Account deleted after the session was issued.
			return account.Account{}, domain.ErrSessionExpired
		}
		return account.Account{}, err
	}
	return acc, nil
}

func (s *Service) openSession(ctx context.Context, acc account.Account) (Session, error) {
	token := uuid.NewString()
	if err := s.sessions.Create(ctx, token, acc.Email, s.sessionTTL); err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		Name:      acc.Name,
		Email:     acc.Email,
		ExpiresAt: time.Now().UTC().Add(s.sessionTTL),
	}, nil
}
