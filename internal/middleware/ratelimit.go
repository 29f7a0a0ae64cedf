package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles requests per key using a redis counter with a fixed
// window. It protects the registration and reset-request endpoints from
// abuse.
type RateLimiter struct {
	Redis  *redis.Client
	Prefix string
	Limit  int
	Window time.Duration
}

func NewRateLimiter(r *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{Redis: r, Prefix: prefix, Limit: limit, Window: window}
}

func (r *RateLimiter) Handler() fiber.Handler {
	return r.ByKey(func(c *fiber.Ctx) string { return c.IP() })
}

func (r *RateLimiter) ByKey(keyFunc func(c *fiber.Ctx) string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		redisKey := fmt.Sprintf("%s:%s", r.Prefix, keyFunc(c))
		count, err := r.Redis.Incr(c.Context(), redisKey).Result()
		if err != nil {
			// Redis being down should not lock everyone out.
			return c.Next()
		}
		if count == 1 {
			r.Redis.Expire(c.Context(), redisKey, r.Window)
		}
		if count > int64(r.Limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests, please try again later",
			})
		}
		return c.Next()
	}
}
