package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ai-studio-go/pkg/log"
)

// RequestLogger 是一个 Gin 中间件，用于记录请求日志。
// 对话接口是流式输出，这里不缓存请求体和响应体。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		log.Infow("HTTP Request Log",
			"statusCode", c.Writer.Status(),
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
}
