package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blacklistPrefix = "token:blacklist:"

// TokenBlacklistRepository records revoked refresh tokens in Redis until they expire.
type TokenBlacklistRepository struct {
	client *redis.Client
}

// NewTokenBlacklistRepository constructs the repository.
func NewTokenBlacklistRepository(client *redis.Client) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{client: client}
}

// Add blacklists jti for ttl. A non-positive ttl means the token already expired.
func (r *TokenBlacklistRepository) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return errors.New("token has no jti")
	}
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, blacklistPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis blacklist %s: %w", jti, err)
	}
	return nil
}

// Contains reports whether jti has been blacklisted.
func (r *TokenBlacklistRepository) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis blacklist lookup %s: %w", jti, err)
	}
	return n > 0, nil
}
