package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/toshikazuyokoi/process-interview-backend/internal/requestdata"
)

// AttachRequestContext seeds every request with a RequestData carrier and a
// request id, echoed back in the X-Request-ID response header.
func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		rd := &requestdata.RequestData{RequestID: requestID}
		c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}
