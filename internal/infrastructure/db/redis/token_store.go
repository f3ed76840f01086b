package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookshelf/library-system/internal/core/domain"
)

const DefaultTokenTTL = 24 * time.Hour

// TokenStore binds access tokens to user ids.
// Key format: access_token:<token>
type TokenStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewTokenStore wraps client. Bindings expire after ttl; a non-positive ttl
// falls back to DefaultTokenTTL.
func NewTokenStore(client redis.Cmdable, ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenStore{client: client, ttl: ttl}
}

func (s *TokenStore) Lookup(ctx context.Context, token domain.AccessToken) (string, bool, error) {
	userID, err := s.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: token lookup: %w", domain.ErrStorage, err)
	}
	return userID, true, nil
}

func (s *TokenStore) Bind(ctx context.Context, token domain.AccessToken, userID string) error {
	if err := s.client.Set(ctx, tokenKey(token), userID, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: token bind: %w", domain.ErrStorage, err)
	}
	return nil
}

func (s *TokenStore) Revoke(ctx context.Context, token domain.AccessToken) error {
	if err := s.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return fmt.Errorf("%w: token revoke: %w", domain.ErrStorage, err)
	}
	return nil
}

// Ping reports whether the store is reachable.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func tokenKey(token domain.AccessToken) string {
	return "access_token:" + string(token)
}
