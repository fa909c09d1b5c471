package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aau-dhms/dhms-api/internal/service"
)

// Metrics records timing and status per route. The route template from
// FullPath keeps label cardinality bounded; raw URLs carry form codes and
// ids and would explode the Prometheus series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
