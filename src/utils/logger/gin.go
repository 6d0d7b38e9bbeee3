package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Request scoped logger
func LOG(c *gin.Context) *logrus.Entry {
	return logger.WithFields(logrus.Fields{
		"module": "minter.gateway",
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"ip":     c.ClientIP(),
	})
}

// Logs a failed request and aborts it with the status. Body is left for the caller if it wasn't written yet
func LOGE(c *gin.Context, err error, status int) *logrus.Entry {
	if !c.Writer.Written() {
		c.Status(status)
	}
	c.Abort()
	return LOG(c).WithError(err).WithField("status", status)
}
