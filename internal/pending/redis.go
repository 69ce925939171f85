package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ceralandia:pending:"

// RedisStore keeps confirmations in Redis with a TTL so several API
// instances can share them. Take uses GETDEL (Redis 6.2+).
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(id uuid.UUID) string {
	return keyPrefix + id.String()
}

func (s *RedisStore) Put(ctx context.Context, c Confirmation) (Confirmation, error) {
	c = stamp(c, time.Now(), s.ttl)
	b, err := json.Marshal(c)
	if err != nil {
		return Confirmation{}, fmt.Errorf("encode confirmation: %w", err)
	}
	if err := s.client.Set(ctx, key(c.ID), b, s.ttl).Err(); err != nil {
		return Confirmation{}, fmt.Errorf("store confirmation: %w", err)
	}
	return c, nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (Confirmation, error) {
	return decode(s.client.Get(ctx, key(id)).Bytes())
}

func (s *RedisStore) Take(ctx context.Context, id uuid.UUID) (Confirmation, error) {
	return decode(s.client.GetDel(ctx, key(id)).Bytes())
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete confirmation: %w", err)
	}
	return nil
}

func decode(b []byte, err error) (Confirmation, error) {
	if errors.Is(err, redis.Nil) {
		return Confirmation{}, ErrNotFound
	}
	if err != nil {
		return Confirmation{}, fmt.Errorf("load confirmation: %w", err)
	}
	var c Confirmation
	if err := json.Unmarshal(b, &c); err != nil {
		return Confirmation{}, fmt.Errorf("decode confirmation: %w", err)
	}
	return c, nil
}
