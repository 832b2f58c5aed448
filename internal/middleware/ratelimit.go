package middleware

import (
	"log"
	"net/http"
	"strconv"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit caps requests per client IP per minute. Fails open when the
// limiter backend is unreachable so an outage never locks everyone out.
func RateLimit(client *redis.Client, perMinute int) echo.MiddlewareFunc {
	limiter := redis_rate.NewLimiter(client)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ratelimit:ip:" + c.RealIP()

			res, err := limiter.Allow(c.Request().Context(), key, redis_rate.PerMinute(perMinute))
			if err != nil {
				log.Printf("WARNING: rate limiter unavailable, failing open: %v", err)
				return next(c)
			}

			if res.Allowed == 0 {
				retryAfter := int(res.RetryAfter.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, slow down")
			}

			return next(c)
		}
	}
}
