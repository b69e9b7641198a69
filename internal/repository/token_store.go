package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRevocationUnavailable indicates no revocation backend is configured.
var ErrRevocationUnavailable = errors.New("token revocation store unavailable")

// TokenStore tracks revoked refresh token identifiers.
type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisTokenStore struct {
	client *redis.Client
	prefix string
}

// NewTokenStore constructs a Redis-backed token store. A nil client yields a
// store that reports nothing revoked and refuses revocation.
func NewTokenStore(client *redis.Client) TokenStore {
	return &redisTokenStore{client: client, prefix: "auth:revoked:"}
}

func (s *redisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if s.client == nil {
		return ErrRevocationUnavailable
	}
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, s.prefix+jti, "1", ttl).Err()
}

func (s *redisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.client == nil {
		return false, nil
	}
	count, err := s.client.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
