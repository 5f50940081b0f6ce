package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// UserIDKey is the context key for the caller's opaque user id
	UserIDKey ContextKey = "user_id"
)

// ExtractUserID stores the X-User-ID header in the request context. The
// identity provider issuing these ids lives outside the portal; maker and
// checker ids are opaque strings here.
//
// Usage:
//
//	e := echo.New()
//	e.Use(middleware.ExtractUserID())
func ExtractUserID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := c.Request().Header.Get("X-User-ID")
			if userID != "" {
				c.Set(string(UserIDKey), userID)
			}
			return next(c)
		}
	}
}

// GetUserID retrieves the user id from the request context
// Returns empty string if not set
func GetUserID(c echo.Context) string {
	userID := c.Get(string(UserIDKey))
	if userID == nil {
		return ""
	}
	return userID.(string)
}

// RequireUserID ensures a user id exists in context
// Returns an error response if not found
func RequireUserID(c echo.Context) (string, error) {
	userID := GetUserID(c)
	if userID == "" {
		err := c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error": "authentication required (X-User-ID header missing)",
		})
		return "", err
	}
	return userID, nil
}
