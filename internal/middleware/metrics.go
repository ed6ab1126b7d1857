package middleware

import (
	"strconv"
	"time"

	"comment-service/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency labelled by the matched route
// template, so /comments/7 and /comments/8 share one series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
