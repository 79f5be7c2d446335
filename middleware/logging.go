package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ua "github.com/mileusna/useragent"
)

// RequestLogging tags every request with an id and logs one line per request
// with latency, status and the calling client.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.New().String()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		browser, clientOS := describeClient(c.Request.UserAgent())
		log.Printf("request_id=%s method=%s path=%s status=%d latency=%s ip=%s client=%q os=%q",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			browser,
			clientOS,
		)
	}
}

// describeClient extracts browser and OS names from a User-Agent string.
func describeClient(userAgent string) (browser, clientOS string) {
	if userAgent == "" {
		return "unknown", "unknown"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "unknown"
	}
	clientOS = parsed.OS
	if clientOS == "" {
		clientOS = "unknown"
	}
	return browser, clientOS
}
