package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/debtkeeper/debtkeeper-server/internal/logger"
)

// Logging logs one line per request with method, path, status and
// duration.
func Logging(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		l.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String())
	}
}
