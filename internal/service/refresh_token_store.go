package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRefreshTTL aplica cuando el caller no indica vida util.
const defaultRefreshTTL = 30 * 24 * time.Hour

// RefreshTokenStore registra que scope es duenio de cada refresh token vigente (por jti).
type RefreshTokenStore interface {
	Store(jti, scope string, ttl time.Duration) error
	// Owner devuelve el scope del jti; ok=false si no existe, vencio o fue revocado.
	Owner(jti string) (scope string, ok bool, err error)
	Revoke(jti string) error
}

// refreshKey normaliza el jti; un jti vacio no se guarda ni se encuentra.
func refreshKey(jti string) (string, bool) {
	key := strings.TrimSpace(jti)
	return key, key != ""
}

func refreshTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return defaultRefreshTTL
	}
	return ttl
}

type refreshGrant struct {
	scope   string
	expires time.Time
}

type memoryRefreshTokenStore struct {
	mu     sync.Mutex
	grants map[string]refreshGrant
	now    func() time.Time
}

// NewMemoryRefreshTokenStore sirve para un solo proceso; moodctl y la API no lo comparten.
func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{
		grants: make(map[string]refreshGrant),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryRefreshTokenStore) Store(jti, scope string, ttl time.Duration) error {
	key, ok := refreshKey(jti)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[key] = refreshGrant{scope: scope, expires: s.now().Add(refreshTTL(ttl))}
	return nil
}

func (s *memoryRefreshTokenStore) Owner(jti string) (string, bool, error) {
	key, ok := refreshKey(jti)
	if !ok {
		return "", false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grant, found := s.grants[key]
	if !found {
		return "", false, nil
	}
	if s.now().After(grant.expires) {
		delete(s.grants, key)
		return "", false, nil
	}
	return grant.scope, true, nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	key, ok := refreshKey(jti)
	if !ok {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, key)
	return nil
}

type redisTokenClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// redisRefreshTokenStore comparte los jti entre la API y moodctl; el valor es el scope.
type redisRefreshTokenStore struct {
	client  redisTokenClient
	prefix  string
	timeout time.Duration
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{
		client:  client,
		prefix:  "mood:refresh:",
		timeout: 500 * time.Millisecond,
	}
}

func (s *redisRefreshTokenStore) Store(jti, scope string, ttl time.Duration) error {
	key, ok := refreshKey(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Set(ctx, s.prefix+key, scope, refreshTTL(ttl)).Err()
}

func (s *redisRefreshTokenStore) Owner(jti string) (string, bool, error) {
	key, ok := refreshKey(jti)
	if !ok {
		return "", false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	scope, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return scope, true, nil
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	key, ok := refreshKey(jti)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Del(ctx, s.prefix+key).Err()
}
