package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"assistant-go/pkg/log"
)

// streamingPaths marks route suffixes whose responses are long-lived
// streams; their duration is connection lifetime, not processing time.
var streamingPaths = []string{"/stream", "/ws"}

func isStreaming(path string) bool {
	for _, s := range streamingPaths {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// Logging records one structured line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
		}
		if !isStreaming(path) {
			fields = append(fields, "duration", time.Since(start).String())
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}
		log.Infow("http request", fields...)
	}
}
