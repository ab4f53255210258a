package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Context keys shared with the middleware
const (
	RequestIDKey = "request_id"
	UserIDKey    = "user_id"
)

// FromGin returns an entry tagged with the request id and caller of c
func FromGin(log logrus.FieldLogger, c *gin.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if v, ok := c.Get(RequestIDKey); ok {
		fields[RequestIDKey] = v
	}
	if v, ok := c.Get(UserIDKey); ok {
		fields[UserIDKey] = v
	}
	return log.WithFields(fields)
}
