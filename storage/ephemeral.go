package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Monmon-1020/CampusFlow/logging"
)

// EphemeralStore is the TTL-keyed store everything session-scoped is built on.
// Every write refreshes only the TTL of the key it touches; untouched keys
// expire independently.
type EphemeralStore interface {
	SetWithTTL(ctx context.Context, key, value string) error
	// SetIfAbsent writes the value only if the key does not exist yet and
	// reports whether the write happened.
	SetIfAbsent(ctx context.Context, key, value string) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	IncrBy(ctx context.Context, key string, n int64) (int64, error)
	DecrBy(ctx context.Context, key string, n int64) (int64, error)
	// SetAdd reports whether the member was newly added.
	SetAdd(ctx context.Context, key, member string) (bool, error)
	SetMembers(ctx context.Context, key string) ([]string, error)
	ListPush(ctx context.Context, key, value string) error
	ListRange(ctx context.Context, key string) ([]string, error)
	HashSet(ctx context.Context, key string, fields map[string]string) error
	HashSetField(ctx context.Context, key, field, value string) error
	HashIncrBy(ctx context.Context, key, field string, n int64) (int64, error)
	HashGetAll(ctx context.Context, key string) (map[string]string, error)
	Delete(ctx context.Context, keys ...string) error
	KeysMatching(ctx context.Context, pattern string) ([]string, error)
	// Expire refreshes the key's TTL to the store default.
	Expire(ctx context.Context, key string) error
	// ExpireIn sets a non-default TTL, e.g. for rate-limit windows.
	ExpireIn(ctx context.Context, key string, d time.Duration) error
}

type RedisEphemeralStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisEphemeralStore(client *redis.Client, ttl time.Duration) *RedisEphemeralStore {
	return &RedisEphemeralStore{Client: client, TTL: ttl}
}

// wrapErr translates driver errors into the package sentinels so callers can
// match with errors.Is without importing go-redis.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return ErrKeyNotFound
	}
	logging.Log.Errorf("STORE: %s failed: %v", op, err)
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

func (s *RedisEphemeralStore) SetWithTTL(ctx context.Context, key, value string) error {
	return wrapErr("SET", s.Client.Set(ctx, key, value, s.TTL).Err())
}

func (s *RedisEphemeralStore) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	ok, err := s.Client.SetNX(ctx, key, value, s.TTL).Result()
	return ok, wrapErr("SETNX", err)
}

func (s *RedisEphemeralStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Client.Get(ctx, key).Result()
	if err != nil {
		return "", wrapErr("GET", err)
	}
	return v, nil
}

// IncrBy and DecrBy leave the key's TTL alone: plain counters back both
// session-lifetime budgets and short rate-limit windows, so their expiry is
// the caller's to manage via Expire/ExpireIn.
func (s *RedisEphemeralStore) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	v, err := s.Client.IncrBy(ctx, key, n).Result()
	if err != nil {
		return 0, wrapErr("INCRBY", err)
	}
	return v, nil
}

func (s *RedisEphemeralStore) DecrBy(ctx context.Context, key string, n int64) (int64, error) {
	v, err := s.Client.DecrBy(ctx, key, n).Result()
	if err != nil {
		return 0, wrapErr("DECRBY", err)
	}
	return v, nil
}

func (s *RedisEphemeralStore) SetAdd(ctx context.Context, key, member string) (bool, error) {
	added, err := s.Client.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, wrapErr("SADD", err)
	}
	return added > 0, s.Expire(ctx, key)
}

func (s *RedisEphemeralStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("SMEMBERS", err)
	}
	return members, nil
}

func (s *RedisEphemeralStore) ListPush(ctx context.Context, key, value string) error {
	if err := s.Client.LPush(ctx, key, value).Err(); err != nil {
		return wrapErr("LPUSH", err)
	}
	return s.Expire(ctx, key)
}

func (s *RedisEphemeralStore) ListRange(ctx context.Context, key string) ([]string, error) {
	values, err := s.Client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, wrapErr("LRANGE", err)
	}
	return values, nil
}

func (s *RedisEphemeralStore) HashSet(ctx context.Context, key string, fields map[string]string) error {
	if err := s.Client.HSet(ctx, key, fields).Err(); err != nil {
		return wrapErr("HSET", err)
	}
	return s.Expire(ctx, key)
}

func (s *RedisEphemeralStore) HashSetField(ctx context.Context, key, field, value string) error {
	if err := s.Client.HSet(ctx, key, field, value).Err(); err != nil {
		return wrapErr("HSET", err)
	}
	return s.Expire(ctx, key)
}

func (s *RedisEphemeralStore) HashIncrBy(ctx context.Context, key, field string, n int64) (int64, error) {
	v, err := s.Client.HIncrBy(ctx, key, field, n).Result()
	if err != nil {
		return 0, wrapErr("HINCRBY", err)
	}
	return v, s.Expire(ctx, key)
}

func (s *RedisEphemeralStore) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	fields, err := s.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, wrapErr("HGETALL", err)
	}
	return fields, nil
}

func (s *RedisEphemeralStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return wrapErr("DEL", s.Client.Del(ctx, keys...).Err())
}

func (s *RedisEphemeralStore) KeysMatching(ctx context.Context, pattern string) ([]string, error) {
	keys, err := s.Client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, wrapErr("KEYS", err)
	}
	return keys, nil
}

func (s *RedisEphemeralStore) Expire(ctx context.Context, key string) error {
	return wrapErr("EXPIRE", s.Client.Expire(ctx, key, s.TTL).Err())
}

func (s *RedisEphemeralStore) ExpireIn(ctx context.Context, key string, d time.Duration) error {
	return wrapErr("EXPIRE", s.Client.Expire(ctx, key, d).Err())
}
