package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type redisBlobStore struct {
	client  redisKV
	prefix  string
	timeout time.Duration
}

// NewRedisBlobStore usa Redis como almacen local compartido. Las claves no expiran.
func NewRedisBlobStore(client *redis.Client) BlobStore {
	if client == nil {
		return nil
	}
	return &redisBlobStore{
		client:  client,
		prefix:  "mood:blob:",
		timeout: 2 * time.Second,
	}
}

func (s *redisBlobStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *redisBlobStore) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, value, 0).Err()
}
