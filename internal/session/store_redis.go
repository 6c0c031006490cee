package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "epicevents:"

// RedisStore keeps the session entries in Redis, for hosts where the
// working directory is not writable.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SecretKey(ctx context.Context) (string, error) {
	val, err := s.get(ctx, SecretKeyName)
	if err != nil {
		return "", err
	}
	if val == "" {
		return "", ErrSecretKeyNotFound
	}
	return val, nil
}

func (s *RedisStore) SetSecretKey(ctx context.Context, key string) error {
	return errors.Wrap(s.client.Set(ctx, redisKeyPrefix+SecretKeyName, key, 0).Err(), "redis set secret key")
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	val, err := s.get(ctx, TokenKey)
	if err != nil {
		return "", err
	}
	if val == "" {
		return "", ErrTokenNotFound
	}
	return val, nil
}

func (s *RedisStore) SaveToken(ctx context.Context, token string) error {
	return errors.Wrap(s.client.Set(ctx, redisKeyPrefix+TokenKey, token, 0).Err(), "redis set token")
}

func (s *RedisStore) DeleteToken(ctx context.Context) error {
	return errors.Wrap(s.client.Del(ctx, redisKeyPrefix+TokenKey).Err(), "redis delete token")
}

func (s *RedisStore) HasToken(ctx context.Context) (bool, error) {
	_, err := s.Token(ctx)
	if errors.Is(err, ErrTokenNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *RedisStore) get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis get %s", key)
	}
	return val, nil
}
