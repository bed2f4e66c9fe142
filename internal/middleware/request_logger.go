package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-tracker-api/internal/constants"
	"github.com/yukikurage/task-tracker-api/internal/logging"
)

// RequestLogger tags every request with an ID and logs its outcome
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.RequestIDHeader, requestID)

		start := time.Now()
		c.Next()

		entry := RequestLog(c).WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// RequestLog returns a log entry carrying the request ID
func RequestLog(c *gin.Context) *logrus.Entry {
	return logging.Logger.WithField("request_id", c.GetString(constants.ContextKeyRequestID))
}
