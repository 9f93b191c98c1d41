package apitest

import (
	"time"

	"github.com/gin-gonic/gin"

	"wishlist-tool-client/internal/common/logger"
)

// logRequests writes one debug line per request the fake service answers.
func logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Int("body_size", c.Writer.Size()).
			Msg("apitest request")
	}
}
