package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store on a Redis server
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store from a redis:// URL
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// Get returns the raw value and whether the key exists
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

// Set writes a value with a TTL
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes a single key
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes all keys with the given prefix using SCAN
func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("redis del by prefix %s: %w", prefix, err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// ZAdd inserts a member with a score into a sorted set
func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("redis zadd %s: %w", key, err)
	}
	return nil
}

// ZCard returns the cardinality of a sorted set
func (s *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zcard %s: %w", key, err)
	}
	return n, nil
}

// ZRemRangeByScore removes members with scores in [min, max]
func (s *RedisStore) ZRemRangeByScore(ctx context.Context, key string, min, max float64) (int64, error) {
	n, err := s.client.ZRemRangeByScore(ctx, key,
		fmt.Sprintf("%f", min), fmt.Sprintf("%f", max)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis zremrangebyscore %s: %w", key, err)
	}
	return n, nil
}

// ZRangeWithScores returns members by rank, lowest score first
func (s *RedisStore) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ZMember, error) {
	zs, err := s.client.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange %s: %w", key, err)
	}
	members := make([]ZMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, ZMember{Member: member, Score: z.Score})
	}
	return members, nil
}

// Expire sets a TTL on an existing key
func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("redis expire %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the store is reachable
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (s *RedisStore) Close() error {
	return s.client.Close()
}
