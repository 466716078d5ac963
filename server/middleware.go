package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// requestID reuses an incoming X-Request-ID or generates one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func accessLog(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"request_id", c.GetString(requestIDKey))
	}
}

func recovery(s *Server) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		s.logger.Error("handler panicked",
			"panic", recovered,
			"request_id", c.GetString(requestIDKey))
		s.writeInternal(c, fmt.Errorf("panic: %v", recovered))
		c.Abort()
	})
}

func (s *Server) writeInternal(c *gin.Context, err error) {
	body := errorBody{Error: "internal server error", ErrorCode: "INTERNAL_ERROR"}
	if !s.cfg.IsProduction() && err != nil {
		body.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
