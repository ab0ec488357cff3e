package monitoring

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestIDMiddleware reuses a client supplied X-Request-ID or assigns a new one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// slowRequest is the latency above which a request is also logged as a
// performance event.
const slowRequest = 2 * time.Second

// MonitoringMiddleware records latency, status and per-route counts for each
// request and writes one request log line. Static assets are logged at debug.
func MonitoringMiddleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.IncrementRequest()

		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		method, path := c.Request.Method, c.Request.URL.Path

		metrics.RecordResponseTime(elapsed)
		metrics.RecordRequestByStatus(status)
		metrics.RecordRoute(method, c.FullPath(), status, elapsed)
		if status >= http.StatusBadRequest {
			metrics.IncrementError()
		}

		if strings.HasPrefix(path, "/assets/") && status < http.StatusBadRequest {
			logger.Debug("Asset Served", "path", path, "status_code", status)
		} else {
			logger.RequestLogger(method, path, c.ClientIP(), c.GetHeader("User-Agent"), c.GetString(requestIDKey), status, elapsed)
		}

		if status >= http.StatusInternalServerError {
			for _, err := range c.Errors {
				logger.APIErrorLogger(err.Err, method, path, c.ClientIP(), status)
			}
			logger.SystemLogger("server_error", fmt.Sprintf("%d on %s %s", status, method, c.FullPath()))
		}
		if elapsed > slowRequest {
			logger.PerformanceLogger("slow_request:"+method+" "+c.FullPath(), elapsed.Seconds(), "seconds")
		}
	}
}

// SecurityMonitoringMiddleware logs requests from known scanner user agents
// and queries that look like injection probes.
func SecurityMonitoringMiddleware(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		details := make(map[string]interface{})

		if containsSQLInjectionPatterns(c.Request.URL.RawQuery) {
			details["type"] = "potential_sql_injection"
			details["query"] = c.Request.URL.RawQuery
		}

		userAgent := c.GetHeader("User-Agent")
		if containsSuspiciousUserAgent(userAgent) {
			details["type"] = "suspicious_user_agent"
		}

		if len(details) > 0 {
			logger.SecurityLogger("suspicious_activity_detected", c.ClientIP(), userAgent, details)
		}

		c.Next()
	}
}

func containsSQLInjectionPatterns(query string) bool {
	q := strings.ToUpper(query)
	for _, pattern := range []string{"UNION SELECT", "UNION ALL", "DROP TABLE", "DELETE FROM", "';--", "/*", "*/"} {
		if strings.Contains(q, pattern) {
			return true
		}
	}
	return false
}

func containsSuspiciousUserAgent(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, agent := range []string{"sqlmap", "nmap", "masscan", "zmap", "dirbuster", "gobuster", "nikto", "acunetix"} {
		if strings.Contains(ua, agent) {
			return true
		}
	}
	return false
}
