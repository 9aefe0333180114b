package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradebook/internal/domain/dto"
	"github.com/guttosm/tradebook/internal/logger"
)

// ErrorHandler turns errors attached with c.Error into a dto.ErrorResponse.
//
// Behavior:
//   - Runs after the handler chain.
//   - Does nothing when no error was attached or a body was already written.
//   - Keeps a 4xx/5xx status set by the handler, otherwise responds 500.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 {
		return
	}
	last := c.Errors.Last()

	rid, _ := c.Get(RequestIDKey)
	lg := logger.Component("http")
	lg.Error().
		Str("request_id", toString(rid)).
		Str("path", c.Request.URL.Path).
		Err(last.Err).
		Msg("request failed")

	if c.Writer.Written() {
		return
	}

	status := c.Writer.Status()
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}
	c.JSON(status, dto.NewErrorResponse(http.StatusText(status), last.Err))
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with status.
// err may be nil.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
