package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists session carts as JSON blobs keyed by session id,
// expiring together with the session TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, items []LineItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	return s.client.Set(ctx, cartKey(sessionID), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) ([]LineItem, error) {
	data, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return items, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, cartKey(sessionID)).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
