// file: middleware/request_logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go-event-admin/logger"
)

// RequestIDHeader carries the id of one request through the logs.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id and logs one line when it
// completes.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Writer.Header().Set(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		l := logger.Info
		switch {
		case status >= 500:
			l = logger.Error
		case status >= 400:
			l = logger.Warn
		}
		l.With(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
		}).Log("request completed")
	}
}
