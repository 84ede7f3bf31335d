package lib

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"
	"wedding/src/config"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// GetRedisClient returns nil when REDIS_HOST is not set; callers treat a nil
// client as "no cache, no rate limit".
func GetRedisClient() *redis.Client {
	if redisClient != nil {
		return redisClient
	}
	redisHost := config.Get().RedisHost
	if redisHost == "" {
		return nil
	}
	opt, err := redis.ParseURL(redisHost)
	if err != nil {
		log.Printf("[redis] Error parsing connection string: %s\n", err.Error())
		return nil
	}
	rdb := redis.NewClient(opt)
	redisClient = rdb
	return rdb
}

// NewRedisClient Replace redis instance with custom client implementation
func NewRedisClient(c *redis.Client) *redis.Client {
	redisClient = c
	return redisClient
}

const GIFT_CATALOG_KEY = "gifts:catalog"
const GIFT_CATALOG_TTL = time.Minute

// CacheGetField decodes the JSON stored under hash key/field into dest.
func CacheGetField(ctx context.Context, key, field string, dest any) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return false
	}
	val, err := rdb.HGet(ctx, key, field).Result()
	if err == redis.Nil {
		return false
	} else if err != nil {
		log.Printf("[redis] Error reading %s/%s: %s\n", key, field, err.Error())
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		log.Printf("[redis] Error decoding %s/%s: %s\n", key, field, err.Error())
		return false
	}
	return true
}

func CacheSetField(ctx context.Context, key, field string, v any, ttl time.Duration) {
	rdb := GetRedisClient()
	if rdb == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("[redis] Error encoding %s/%s: %s\n", key, field, err.Error())
		return
	}
	if err := rdb.HSet(ctx, key, field, string(b)).Err(); err != nil {
		log.Printf("[redis] Error updating %s/%s: %s\n", key, field, err.Error())
		return
	}
	if err := rdb.Expire(ctx, key, ttl).Err(); err != nil {
		log.Printf("[redis] Error setting ttl on %s: %s\n", key, err.Error())
	}
}

func CacheInvalidate(ctx context.Context, keys ...string) {
	rdb := GetRedisClient()
	if rdb == nil || len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[redis] Error invalidating %v: %s\n", keys, err.Error())
	}
}

// AllowAttempt counts an attempt under key inside a fixed window and reports
// whether the caller is still within max. Redis failures fail open.
func AllowAttempt(ctx context.Context, key string, max int64, window time.Duration) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return true
	}
	n, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		log.Printf("[redis] Error counting attempt %s: %s\n", key, err.Error())
		return true
	}
	if n == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			log.Printf("[redis] Error setting ttl on %s: %s\n", key, err.Error())
		}
	}
	return n <= max
}

// AttemptsExceeded reports whether key already holds max failed attempts
// without counting a new one.
func AttemptsExceeded(ctx context.Context, key string, max int64) bool {
	rdb := GetRedisClient()
	if rdb == nil {
		return false
	}
	n, err := rdb.Get(ctx, key).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[redis] Error reading attempts %s: %s\n", key, err.Error())
		}
		return false
	}
	return n >= max
}

func ResetAttempts(ctx context.Context, key string) {
	CacheInvalidate(ctx, key)
}
