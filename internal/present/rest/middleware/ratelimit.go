package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window per-client request budget backed by
// redis. A nil client disables limiting entirely.
type RateLimiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

func NewRateLimiter(rdb *redis.Client, max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		max:    int64(max),
		window: window,
	}
}

// Limit counts requests per client IP. When redis itself is unreachable the
// request is let through: limiting is protection, not a dependency.
func (rl *RateLimiter) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if rl.rdb == nil {
			return next(c)
		}

		ctx := c.Request().Context()
		key := "ratelimit:" + c.RealIP()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			return next(c)
		}
		if count == 1 {
			rl.rdb.Expire(ctx, key, rl.window)
		}

		if count > rl.max {
			return c.JSON(http.StatusTooManyRequests, echo.Map{
				"statusCode": http.StatusTooManyRequests,
				"message":    "Too many requests, please try again later",
			})
		}

		return next(c)
	}
}
