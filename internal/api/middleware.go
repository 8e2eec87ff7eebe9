package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// UserHeader carries the identity asserted by the upstream auth proxy.
	UserHeader = "X-User-ID"

	// RequestIDHeader echoes the per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	userKey      = "user_id"
	requestIDKey = "request_id"
)

// RequireUser rejects requests without a UUID identity header. The identity
// is trusted as-is; it is never re-validated against credentials.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.GetHeader(UserHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, APIError{
				Error: "missing or invalid " + UserHeader + " header",
				Code:  "UNAUTHENTICATED",
			})
			return
		}
		c.Set(userKey, id.String())
		c.Next()
	}
}

// userID returns the identity stored by RequireUser.
func userID(c *gin.Context) string {
	return c.GetString(userKey)
}

// RequestLogger assigns a request id and logs one line per request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Header(RequestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"duration", time.Since(start),
			"request_id", reqID,
			"user_id", userID(c),
		)
	}
}

// RequestTimeout bounds the context every handler hands to the tracker.
func RequestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
