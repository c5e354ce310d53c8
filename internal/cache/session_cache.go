// Package cache keeps active API sessions in Redis so token checks can skip the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type SessionCache struct {
	client *redis.Client
	prefix string
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// NewSessionCache wraps client. A nil client gives a cache that never hits.
func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{client: client, prefix: "session:"}
}

func (c *SessionCache) key(sessionID string) string {
	return c.prefix + sessionID
}

// Put remembers that sessionID belongs to userID for ttl.
func (c *SessionCache) Put(ctx context.Context, sessionID string, userID int64, ttl time.Duration) error {
	if c == nil || c.client == nil || ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.key(sessionID), strconv.FormatInt(userID, 10), ttl).Err()
}

// Get returns the cached owner of sessionID; ok is false on a miss.
func (c *SessionCache) Get(ctx context.Context, sessionID string) (int64, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	val, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt session entry %q: %w", sessionID, err)
	}
	return userID, true, nil
}

func (c *SessionCache) Delete(ctx context.Context, sessionID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(sessionID)).Err()
}
