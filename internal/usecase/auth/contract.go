package auth

import (
	"context"
	"time"

	"github.com/healthagg/healthagg/internal/domain/account"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, acc account.Account, passwordHash string) error
	Get(ctx context.Context, email string) (account.Account, string, error)
}

// SessionRepository persists bearer-token sessions.
type SessionRepository interface {
	Create(ctx context.Context, token, email string, ttl time.Duration) error
	Email(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
}
