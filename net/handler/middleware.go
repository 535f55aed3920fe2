package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/searchkit/ctxutil"
	"github.com/ncobase/searchkit/logging/logger"
	"github.com/sirupsen/logrus"
)

// TraceID reuses the caller's X-Trace-ID or starts a new one, and echoes it
// on the response.
func TraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.FromGinContext(c)
		if id := c.GetHeader(ctxutil.TraceIDHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(ctxutil.TraceIDHeader, traceID)
		c.Next()
	}
}

// AccessLog logs one line per request.
func AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		ctx := ctxutil.FromGinContext(c)
		entry := logger.WithFields(ctx, logrus.Fields{
			"method":    method,
			"path":      path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start).String(),
			"client_ip": ctxutil.GetClientIP(ctx),
		})
		if len(c.Errors) > 0 {
			entry.Warn(c.Errors.String())
			return
		}
		entry.Info("HTTP request")
	}
}
