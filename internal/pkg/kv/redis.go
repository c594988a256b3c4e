package kv

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store wraps an optional redis client. A Store without a client allows everything,
// so local development and tests run without redis.
type Store struct {
	client *redis.Client
}

// New connects using a redis:// URL. An empty URL yields a disabled store.
func New(redisURL string) (*Store, error) {
	if redisURL == "" {
		return &Store{}, nil
	}
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Store{client: redis.NewClient(opt)}, nil
}

// NewWithClient is used when the caller already owns a client.
func NewWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Available() bool { return s != nil && s.client != nil }

// AllowRate counts hits for key in a fixed window and reports whether the hit is within limit.
// Redis errors fail open.
func (s *Store) AllowRate(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	if !s.Available() {
		return true, 0, nil
	}
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

func (s *Store) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	if !s.Available() {
		return nil
	}
	return s.client.Set(ctx, key, val, ttl).Err()
}

// Get returns "" and nil when the key does not exist.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if !s.Available() {
		return "", nil
	}
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

func (s *Store) Del(ctx context.Context, keys ...string) {
	if !s.Available() {
		return
	}
	_ = s.client.Del(ctx, keys...).Err()
}

func (s *Store) Ping(ctx context.Context) error {
	if !s.Available() {
		return nil
	}
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if !s.Available() {
		return nil
	}
	return s.client.Close()
}
