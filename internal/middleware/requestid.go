package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey is the gin context key holding the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an id, stored under RequestIDKey and
// echoed in the X-Request-ID response header. A caller-supplied id is kept
// when it parses as a UUID;
// anything else is replaced with a fresh v4 UUID.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := inboundRequestID(c)
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

func inboundRequestID(c *gin.Context) string {
	if id, err := uuid.Parse(c.GetHeader(RequestIDHeader)); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
