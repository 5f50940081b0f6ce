package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tabular/steward/common/ratelimit"
)

// UserRateLimitMiddleware checks per-user rate limits on mutation routes.
// Requires the user id to be set in context by the identity middleware.
func UserRateLimitMiddleware(rateLimiter *ratelimit.RateLimiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Get user id from context (set by identity middleware)
			userID, ok := c.Get("user_id").(string)
			if !ok || userID == "" {
				// No identity, nothing to key the limit on
				return next(c)
			}

			result, err := rateLimiter.CheckUserLimit(c.Request().Context(), userID, limit, windowSec)
			if err != nil {
				// On error, allow request (fail open for availability)
				return next(c)
			}

			if !result.Allowed {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error":   "user_rate_limit_exceeded",
					"message": "You have exceeded your request quota. Please wait before trying again.",
					"details": map[string]interface{}{
						"user_id":             userID,
						"limit":               result.Limit,
						"current_count":       result.CurrentCount,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
