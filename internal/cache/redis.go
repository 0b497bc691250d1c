package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/resume-optimizer/internal/resume"
	"github.com/redis/go-redis/v9"
)

const redisPrefix = "resume:cache:"

// RedisStore keeps records as JSON strings and indexes keys per requester in
// a Redis set.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps entries until invalidated.
func NewRedisStore(client redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// NewRedisStoreFromURL connects using a redis:// URL and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedisStore(client, ttl), nil
}

func entryKey(key string) string {
	return redisPrefix + key
}

func requesterKey(requesterID string) string {
	return redisPrefix + "requester:" + requesterID
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) (*resume.Map, bool, error) {
	data, err := s.client.Get(ctx, entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	rec, err := resume.ParseMap(data)
	if err != nil {
		return nil, false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	return rec, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, requesterID, key string, record *resume.Map) error {
	data, err := record.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey(key), data, s.ttl)
		pipe.SAdd(ctx, requesterKey(requesterID), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put failed: %w", err)
	}
	return nil
}

// DeleteRequester implements Store.
func (s *RedisStore) DeleteRequester(ctx context.Context, requesterID string) (int, error) {
	keys, err := s.client.SMembers(ctx, requesterKey(requesterID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis smembers failed: %w", err)
	}

	removed := 0
	if len(keys) > 0 {
		full := make([]string, len(keys))
		for i, k := range keys {
			full[i] = entryKey(k)
		}
		n, err := s.client.Del(ctx, full...).Result()
		if err != nil {
			return 0, fmt.Errorf("redis del failed: %w", err)
		}
		removed = int(n)
	}
	if err := s.client.Del(ctx, requesterKey(requesterID)).Err(); err != nil {
		return removed, fmt.Errorf("redis del failed: %w", err)
	}
	return removed, nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
