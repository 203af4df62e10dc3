package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"strconv"       // Integer to string conversion for cache keys
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// CacheTTL is the backstop expiry for cached GET responses. Mutations
// invalidate eagerly, so the TTL only covers missed invalidations.
const CacheTTL = 60 * time.Second

// Cache key builders, one keyspace per resource per user
func ExpenseListKey(userID uint) string {
	return "expenses:user:" + strconv.Itoa(int(userID))
}

func ExpenseStatsKey(userID uint) string {
	return "expensestats:user:" + strconv.Itoa(int(userID))
}

func IncomeListKey(userID uint) string {
	return "incomes:user:" + strconv.Itoa(int(userID))
}

func IncomeStatsKey(userID uint) string {
	return "incomestats:user:" + strconv.Itoa(int(userID))
}

func CategoryListKey(userID uint) string {
	return "categories:user:" + strconv.Itoa(int(userID))
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes a key from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Delete key from Redis
}

// InvalidateExpenseCache drops the cached expense list and stats for a user
func InvalidateExpenseCache(ctx context.Context, rdb *redis.Client, userID uint) {
	_ = DeleteCache(ctx, rdb, ExpenseListKey(userID))
	_ = DeleteCache(ctx, rdb, ExpenseStatsKey(userID))
}

// InvalidateIncomeCache drops the cached income list and stats for a user
func InvalidateIncomeCache(ctx context.Context, rdb *redis.Client, userID uint) {
	_ = DeleteCache(ctx, rdb, IncomeListKey(userID))
	_ = DeleteCache(ctx, rdb, IncomeStatsKey(userID))
}

// InvalidateUserCaches drops every cached entry owned by a user
func InvalidateUserCaches(ctx context.Context, rdb *redis.Client, userID uint) {
	InvalidateExpenseCache(ctx, rdb, userID)
	InvalidateIncomeCache(ctx, rdb, userID)
	_ = DeleteCache(ctx, rdb, CategoryListKey(userID))
}
