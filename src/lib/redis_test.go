package lib

import (
	"context"
	"errors"
	"testing"
	"time"
	"wedding/src/config"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func TestAllowAttempt(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	NewRedisClient(rdb)
	defer NewRedisClient(nil)
	ctx := context.Background()

	mock.ExpectIncr("login:1.2.3.4").SetVal(1)
	mock.ExpectExpire("login:1.2.3.4", time.Minute).SetVal(true)
	assert.True(t, AllowAttempt(ctx, "login:1.2.3.4", 2, time.Minute))

	mock.ExpectIncr("login:1.2.3.4").SetVal(3)
	assert.False(t, AllowAttempt(ctx, "login:1.2.3.4", 2, time.Minute))

	mock.ExpectIncr("login:1.2.3.4").SetErr(errors.New("down"))
	assert.True(t, AllowAttempt(ctx, "login:1.2.3.4", 2, time.Minute))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttemptsExceeded(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	NewRedisClient(rdb)
	defer NewRedisClient(nil)
	ctx := context.Background()

	mock.ExpectGet("login:1.2.3.4").RedisNil()
	assert.False(t, AttemptsExceeded(ctx, "login:1.2.3.4", 3))

	mock.ExpectGet("login:1.2.3.4").SetVal("2")
	assert.False(t, AttemptsExceeded(ctx, "login:1.2.3.4", 3))

	mock.ExpectGet("login:1.2.3.4").SetVal("3")
	assert.True(t, AttemptsExceeded(ctx, "login:1.2.3.4", 3))

	mock.ExpectGet("login:1.2.3.4").SetErr(errors.New("down"))
	assert.False(t, AttemptsExceeded(ctx, "login:1.2.3.4", 3))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowAttemptWithoutRedis(t *testing.T) {
	NewRedisClient(nil)
	config.Set(&config.Config{})
	defer config.Set(nil)
	assert.True(t, AllowAttempt(context.Background(), "any", 0, time.Minute))
}

func TestCacheFields(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	NewRedisClient(rdb)
	defer NewRedisClient(nil)
	ctx := context.Background()

	mock.ExpectHSet(GIFT_CATALOG_KEY, "all", `["a","b"]`).SetVal(1)
	mock.ExpectExpire(GIFT_CATALOG_KEY, GIFT_CATALOG_TTL).SetVal(true)
	CacheSetField(ctx, GIFT_CATALOG_KEY, "all", []string{"a", "b"}, GIFT_CATALOG_TTL)

	mock.ExpectHGet(GIFT_CATALOG_KEY, "all").SetVal(`["a","b"]`)
	var got []string
	assert.True(t, CacheGetField(ctx, GIFT_CATALOG_KEY, "all", &got))
	assert.Equal(t, []string{"a", "b"}, got)

	mock.ExpectHGet(GIFT_CATALOG_KEY, "cozinha").RedisNil()
	assert.False(t, CacheGetField(ctx, GIFT_CATALOG_KEY, "cozinha", &got))

	mock.ExpectDel(GIFT_CATALOG_KEY).SetVal(1)
	CacheInvalidate(ctx, GIFT_CATALOG_KEY)

	assert.NoError(t, mock.ExpectationsWereMet())
}
