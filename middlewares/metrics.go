package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hassam391/stead-backend/telemetry"
)

// Instrument records request counts and latency per matched route.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "/debug/prometheus" {
			c.Next()
			return
		}
		if route == "" {
			route = "unmatched"
		}

		telemetry.HTTPInFlight.Inc()
		defer telemetry.HTTPInFlight.Dec()

		start := time.Now()
		c.Next()

		telemetry.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		telemetry.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
