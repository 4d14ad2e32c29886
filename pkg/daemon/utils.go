package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestLogger logs one line per request. Client errors are warnings,
// server errors are errors, everything else is debug.
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"route":   c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Round(time.Microsecond).String(),
			"bytes":   max(c.Writer.Size(), 0),
		}
		if id := c.Param("id"); id != "" {
			fields["session"] = id
		}
		entry := logger.WithFields(fields)

		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			entry = entry.WithField("error", errs.String())
		}

		status := c.Writer.Status()
		switch {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Debug("request served")
		}
	}
}
