package blacklist

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisBlacklist struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis создаёт чёрный список поверх Redis из URL
// (например, redis://:pass@host:6379/0). Если prefix пустой —
// используется "bl:".
func NewRedis(redisURL, prefix string) (Blacklist, error) {
	if prefix == "" {
		prefix = "bl:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisBlacklist{rdb: rdb, prefix: prefix}, nil
}

func (b *redisBlacklist) key(token string) string { return b.prefix + token }

// Revoke — SET с TTL; повторный вызов лишь продлевает запись.
func (b *redisBlacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		// Токен уже истёк, запись не нужна.
		return nil
	}

	return b.rdb.Set(ctx, b.key(token), "revoked", ttl).Err()
}

func (b *redisBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := b.rdb.Get(ctx, b.key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func (b *redisBlacklist) Close() error { return b.rdb.Close() }
