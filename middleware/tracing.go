// file: middleware/tracing.go
package middleware

import (
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-gonic/gin"
)

// Tracing opens an X-Ray segment per request so the gateway's outbound
// calls are recorded under it.
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, seg := xray.BeginSegment(c.Request.Context(), serviceName)
		c.Request = c.Request.WithContext(ctx)

		seg.Lock()
		req := seg.GetHTTP().GetRequest()
		req.Method = c.Request.Method
		req.URL = c.Request.URL.String()
		req.ClientIP = c.ClientIP()
		req.UserAgent = c.Request.UserAgent()
		seg.Unlock()

		c.Next()

		status := c.Writer.Status()
		seg.Lock()
		seg.GetHTTP().GetResponse().Status = status
		if status >= 500 {
			seg.Fault = true
		} else if status >= 400 {
			seg.Error = true
		}
		seg.Unlock()
		seg.Close(nil)
	}
}
