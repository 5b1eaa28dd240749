package redis

import (
	redis_utils "Rememerme/services/redis/utils"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(addr string, db int) *RedisClient {
	var client *redis.Client
	if addr != "localhost:6379" {
		log.Println("Connecting to remote Redis...")
		opt, err := redis.ParseURL(addr)
		if err != nil {
			panic("Error parsing Redis URL")
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   db,
		})
	}
	return &RedisClient{
		client: client,
		ctx:    context.Background(),
	}
}

// AcquireGameLock takes the per-game mutation lock. StartGame and
// SelectWinner hold it across their multi-record writes so a given round
// can only be advanced by one request at a time. Returns false when some
// other request already holds the lock.
func (rc *RedisClient) AcquireGameLock(gameID string, ttl time.Duration) (bool, error) {
	ok, err := rc.client.SetNX(rc.ctx, redis_utils.FormatGameLockKey(gameID), 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock for game %s: %w", gameID, err)
	}
	return ok, nil
}

// ReleaseGameLock drops the per-game mutation lock.
func (rc *RedisClient) ReleaseGameLock(gameID string) error {
	if err := rc.client.Del(rc.ctx, redis_utils.FormatGameLockKey(gameID)).Err(); err != nil {
		return fmt.Errorf("failed to release lock for game %s: %w", gameID, err)
	}
	return nil
}

// CleanupKeys removes the specified keys from Redis. Tests and the
// maintenance path use it to drop stale locks.
func (rc *RedisClient) CleanupKeys(keys []string) error {
	for _, key := range keys {
		if err := rc.client.Del(rc.ctx, key).Err(); err != nil {
			return fmt.Errorf("failed to cleanup Redis key %s: %v", key, err)
		}
	}
	return nil
}
