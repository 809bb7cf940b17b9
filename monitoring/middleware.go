package monitoring

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Middleware records request counts and durations per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// the matched route, not the raw URL, keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(path, method))
		HttpRequestsTotal.WithLabelValues(path, method).Inc()

		c.Next()

		timer.ObserveDuration()
	}
}
