package api

import (
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// Mailer delivers one-time codes. Satisfied by internal/mailer.
type Mailer interface {
	Send(to, subject, body string) error
}

// currentUserID extracts the authenticated user's ID stored by the JWT middleware
func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// contextRedis returns the redis client injected by the route group, if any.
// A nil client disables caching.
func contextRedis(c *gin.Context) *redis.Client {
	if v, ok := c.Get("redisClient"); ok {
		if rdb, ok := v.(*redis.Client); ok {
			return rdb
		}
	}
	return nil
}
