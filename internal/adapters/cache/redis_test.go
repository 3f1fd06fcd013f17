package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestOptions_Addr(t *testing.T) {
	assert.Equal(t, "cache:6380", Options{Host: "cache", Port: "6380"}.Addr())
	assert.Equal(t, "[::1]:6379", Options{Host: "::1", Port: "6379"}.Addr())
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), Options{Host: "localhost", Port: "9999"}, zap.NewNop())
	assert.ErrorContains(t, err, "localhost:9999")
}

func TestRedisClient_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       1,
	}, zap.NewNop())
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	require.NoError(t, rdb.FlushDB(ctx).Err(), "Failed to flush test DB")

	t.Run("Set and Get", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "habit:1", `{"id":1}`, time.Minute).Err())

		val, err := rdb.Get(ctx, "habit:1").Result()
		assert.NoError(t, err)
		assert.Equal(t, `{"id":1}`, val)
	})

	t.Run("Expired keys read as redis.Nil", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "short_lived", "x", 100*time.Millisecond).Err())

		assert.Eventually(t, func() bool {
			return rdb.Get(ctx, "short_lived").Err() == redis.Nil
		}, 2*time.Second, 50*time.Millisecond)
	})
}
