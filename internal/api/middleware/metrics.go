package middleware

import (
	"strconv"
	"time"

	"github.com/fisker/formflow-backend/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware 记录API请求计数与时长
// endpoint 使用路由模板（如 /api/forms/:id）避免标签基数爆炸
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		metrics.APIRequestsTotal.WithLabelValues(
			c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.APIRequestDuration.WithLabelValues(
			c.Request.Method, endpoint,
		).Observe(time.Since(start).Seconds())
	}
}
