package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// SessionStorage implements fiber.Storage on top of a go-redis client so that
// login sessions survive restarts and are shared between instances.
type SessionStorage struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewSessionStorage wraps rdb. The caller owns the client; Close is a no-op.
func NewSessionStorage(rdb *redis.Client) *SessionStorage {
	return &SessionStorage{rdb: rdb, timeout: 3 * time.Second}
}

func (s *SessionStorage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns nil, nil for a missing key as fiber.Storage requires.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	if len(key) == 0 {
		return nil, nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.rdb.Get(ctx, sessionKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

// Set stores val; exp of zero means no expiry.
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	if len(key) == 0 || len(val) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return s.rdb.Set(ctx, sessionKeyPrefix+key, val, exp).Err()
}

func (s *SessionStorage) Delete(key string) error {
	if len(key) == 0 {
		return nil
	}
	ctx, cancel := s.ctx()
	defer cancel()

	return s.rdb.Del(ctx, sessionKeyPrefix+key).Err()
}

// Reset removes every session key, leaving other data in the database alone.
func (s *SessionStorage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (s *SessionStorage) Close() error {
	return nil
}
