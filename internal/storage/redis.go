// ABOUTME: Redis storage implementation for point collections
// ABOUTME: Stores the encoded collection as a single string value

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/pointedit/internal/models"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server.
type RedisStore struct {
	client *redis.Client
	key    string
}

// Compile-time check that RedisStore implements Store.
var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to the Redis server at redisURL (redis://host:port/db).
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	if redisURL == "" {
		return nil, errors.New("redis backend requires a redis url")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client, key: "pointedit:" + Key}, nil
}

// Load reads the collection.
func (s *RedisStore) Load(ctx context.Context) (models.Collection, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get points: %w", err)
	}
	return Decode(data)
}

// Save replaces the stored collection.
func (s *RedisStore) Save(ctx context.Context, points models.Collection) error {
	data, err := Encode(points)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
