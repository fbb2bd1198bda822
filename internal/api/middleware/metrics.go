package middleware

import (
	"time"

	"github.com/MaxWeaver7/NFLSTATSAPP-sub001/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency by route template so path
// parameters do not explode label cardinality.
func Metrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(path, c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
