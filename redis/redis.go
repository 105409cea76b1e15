package redis

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"portfolio-builder/internal/config"

	"github.com/redis/go-redis/v9"
)

var Ctx = context.Background()
var RedisClient *redis.Client

func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr: config.AppConfig.RedisAddress,
	})
	_, err := RedisClient.Ping(Ctx).Result()
	if err != nil {
		log.Println("Redis not available. Running without Redis.")
		RedisClient = nil
		return
	}

	log.Println("Redis connected successfully.")
}

// StoreToken registers an issued access token so it can be revoked on logout.
func StoreToken(ctx context.Context, token string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, "session:"+token, "1", ttl).Err()
}

// TokenExists reports whether a token is still active. When Redis is
// unavailable tokens are accepted on signature alone.
func TokenExists(ctx context.Context, token string) bool {
	if RedisClient == nil {
		return true
	}
	exists, err := RedisClient.Exists(ctx, "session:"+token).Result()
	return err == nil && exists > 0
}

// RevokeToken drops a token at logout.
func RevokeToken(ctx context.Context, token string) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Del(ctx, "session:"+token).Err()
}

// Cache is a thin JSON cache with versioned keys. All methods are safe to
// call when Redis is down; reads simply miss and writes are dropped.
type Cache struct {
	client *redis.Client
}

func NewCache() *Cache {
	return &Cache{client: RedisClient}
}

func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("cache marshal failed for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("cache set failed for %s: %v", key, err)
	}
}

// GetVersion reads the current data version for a key family. A missing
// key reads as version 0.
func (c *Cache) GetVersion(ctx context.Context, key string) int64 {
	if c.client == nil {
		return 0
	}
	v, err := c.client.Get(ctx, key).Int64()
	if err != nil {
		return 0
	}
	return v
}

// IncrementVersion bumps the data version so every cached entry built on
// the old version stops matching and expires by TTL.
func (c *Cache) IncrementVersion(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		log.Printf("cache version bump failed for %s: %v", key, err)
	}
}
