package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukuvago/themeboard/internal/logger"
)

// RequestLogger logs one line per request once it has been handled.
func RequestLogger() gin.HandlerFunc {
	log := logger.With("http")

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}

		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
