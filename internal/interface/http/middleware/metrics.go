package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/catalog/pkg/metrics"
)

// Metrics records request count, latency and in-flight requests. The path
// label is the route template, e.g. /api/v1/products/:id, to keep the label
// set bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncInProgress()
		defer metrics.DecInProgress()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTP(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
