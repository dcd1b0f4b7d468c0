// Package session persists bearer-token sessions with a TTL.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/healthagg/healthagg/internal/db"
	"github.com/healthagg/healthagg/internal/domain"
)

// Repository stores session tokens mapped to the account email.
// Expiry is delegated to the store's TTL.
type Repository struct {
	store     db.KVStore
	keyPrefix string
}

// New creates a session repository.
func New(store db.KVStore, keyPrefix string) *Repository {
	return &Repository{store: store, keyPrefix: keyPrefix}
}

func (r *Repository) key(token string) string {
	return r.keyPrefix + "session:" + token
}

// Create stores a session token for the given email.
func (r *Repository) Create(ctx context.Context, token, email string, ttl time.Duration) error {
	if err := r.store.SetWithTTL(ctx, r.key(token), []byte(email), ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Email resolves a session token to its account email.
// Returns domain.ErrSessionExpired when the token is unknown or expired.
func (r *Repository) Email(ctx context.Context, token string) (string, error) {
	data, err := r.store.Get(ctx, r.key(token))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.ErrSessionExpired
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return string(data), nil
}

// Delete removes a session. Deleting an unknown token is not an error.
func (r *Repository) Delete(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, r.key(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
