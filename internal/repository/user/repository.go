// Package user persists registered accounts as hashes in the key-value store.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/healthagg/healthagg/internal/db"
	"github.com/healthagg/healthagg/internal/domain"
	"github.com/healthagg/healthagg/internal/domain/account"
)

// Hash field names.
const (
	fieldName         = "name"
	fieldPasswordHash = "password_hash"
	fieldCreatedAt    = "created_at"
)

// Repository stores accounts keyed by normalized email.
type Repository struct {
	store     db.HashStore
	keyPrefix string
}

// New creates a user repository.
func New(store db.HashStore, keyPrefix string) *Repository {
	return &Repository{store: store, keyPrefix: keyPrefix}
}

func (r *Repository) key(email string) string {
	return r.keyPrefix + "user:" + strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account. Returns domain.ErrAlreadyExists when an
// account with the same email is registered.
func (r *Repository) Create(ctx context.Context, acc account.Account, passwordHash string) error {
	key := r.key(acc.Email)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check account exists: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: account %s", domain.ErrAlreadyExists, acc.Email)
	}

	fields := map[string]string{
		fieldName:         acc.Name,
		fieldPasswordHash: passwordHash,
		fieldCreatedAt:    acc.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("store account: %w", err)
	}
	return nil
}

// Get loads an account and its password hash by email.
// Returns domain.ErrNotFound when no such account exists.
func (r *Repository) Get(ctx context.Context, email string) (account.Account, string, error) {
	fields, err := r.store.HGetAll(ctx, r.key(email))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return account.Account{}, "", fmt.Errorf("%w: account %s", domain.ErrNotFound, email)
		}
		return account.Account{}, "", fmt.Errorf("load account: %w", err)
	}
	if len(fields) == 0 {
		return account.Account{}, "", fmt.Errorf("%w: account %s", domain.ErrNotFound, email)
	}

	createdAt, _ := time.Parse(time.RFC3339, fields[fieldCreatedAt])

	acc := account.Account{
		Name:      fields[fieldName],
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: createdAt,
	}
	return acc, fields[fieldPasswordHash], nil
}
