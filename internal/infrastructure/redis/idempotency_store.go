package redisstore

import (
	"context"
	"time"

	"otcrates-service/internal/application"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "otcrates:refresh:idem:"

var _ application.IdempotencyStore = (*Store)(nil)

// Store reserves manual-refresh idempotency keys with SETNX so a double
// submit within TTL starts only one fetch.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Store {
	return &Store{Client: client, TTL: ttl}
}

func (s *Store) TryReserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, keyPrefix+key, "1", s.TTL).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}
