package security

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
)

// SecurityConfig holds security configuration
type SecurityConfig struct {
	MaxInputLength    int           `json:"max_input_length"`
	MaxRequestsPerMin int           `json:"max_requests_per_min"`
	AllowedOrigins    []string      `json:"allowed_origins"`
	RequestTimeout    time.Duration `json:"request_timeout"`
	EnableHSTS        bool          `json:"enable_hsts"`
	CSPReportURI      string        `json:"csp_report_uri"`
}

// DefaultSecurityConfig returns secure defaults
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		MaxInputLength:    100,
		MaxRequestsPerMin: 120,
		AllowedOrigins:    []string{"http://localhost:3000", "http://localhost:5173"},
		RequestTimeout:    30 * time.Second,
	}
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMetrics counts requests rejected by the per-IP limiter.
type RateLimitMetrics interface {
	IncrementRateLimitIPBlock()
}

// SecurityMiddleware provides input validation, rate limiting and headers
type SecurityMiddleware struct {
	config     SecurityConfig
	mu         sync.Mutex
	ipLimiters map[string]*ipLimiter
	metrics    RateLimitMetrics
}

// NewSecurityMiddleware creates a new security middleware instance
func NewSecurityMiddleware(config SecurityConfig, metrics RateLimitMetrics) *SecurityMiddleware {
	return &SecurityMiddleware{
		config:     config,
		ipLimiters: make(map[string]*ipLimiter),
		metrics:    metrics,
	}
}

// ValidateInput checks a team, player or statistic name taken from the request.
func (sm *SecurityMiddleware) ValidateInput(input string) error {
	if len(input) > sm.config.MaxInputLength {
		return fmt.Errorf("input exceeds maximum length of %d characters", sm.config.MaxInputLength)
	}

	if strings.Contains(input, "\x00") {
		return fmt.Errorf("input contains invalid characters")
	}

	if !utf8.ValidString(input) {
		return fmt.Errorf("input contains invalid UTF-8 encoding")
	}

	// Names legitimately contain quotes and dashes (De'Aaron, Gilgeous-Alexander),
	// so only markup is rejected.
	inputLower := strings.ToLower(input)
	for _, pattern := range []string{"<script", "</script>", "javascript:", "<iframe"} {
		if strings.Contains(inputLower, pattern) {
			return fmt.Errorf("input contains suspicious patterns")
		}
	}

	return nil
}

// ValidateQuery rejects requests whose query values or path parameters fail
// ValidateInput. The stats list is checked item by item.
func (sm *SecurityMiddleware) ValidateQuery(c *gin.Context) {
	reject := func(name string, err error) {
		apperrors.Respond(c, apperrors.NewValidationError("input validation failed", map[string]string{name: err.Error()}))
	}

	for name, values := range c.Request.URL.Query() {
		for _, v := range values {
			items := []string{v}
			if name == "stats" {
				items = strings.Split(v, ",")
			}
			for _, item := range items {
				if err := sm.ValidateInput(item); err != nil {
					reject(name, err)
					return
				}
			}
		}
	}
	for _, p := range c.Params {
		if err := sm.ValidateInput(p.Value); err != nil {
			reject(p.Key, err)
			return
		}
	}
	c.Next()
}

func (sm *SecurityMiddleware) limiterFor(ip string) *rate.Limiter {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	entry, exists := sm.ipLimiters[ip]
	if !exists {
		rps := rate.Limit(float64(sm.config.MaxRequestsPerMin) / 60.0)
		burst := sm.config.MaxRequestsPerMin / 2
		if burst < 5 {
			burst = 5
		}
		entry = &ipLimiter{limiter: rate.NewLimiter(rps, burst)}
		sm.ipLimiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

// RateLimitByIP implements per-IP rate limiting
func (sm *SecurityMiddleware) RateLimitByIP(c *gin.Context) {
	if sm.config.MaxRequestsPerMin <= 0 {
		c.Next()
		return
	}

	if !sm.limiterFor(c.ClientIP()).Allow() {
		if sm.metrics != nil {
			sm.metrics.IncrementRateLimitIPBlock()
		}
		c.Header("Retry-After", "60")
		apperrors.Respond(c, apperrors.NewRateLimitError("60"))
		return
	}

	c.Next()
}

// RequestTimeout attaches a deadline to the request context
func (sm *SecurityMiddleware) RequestTimeout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sm.config.RequestTimeout)
	defer cancel()

	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Timeout", strconv.Itoa(int(sm.config.RequestTimeout.Seconds())))

	c.Next()
}

// CORS returns the gin-contrib/cors middleware for the configured origins.
func (sm *SecurityMiddleware) CORS() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Request-ID"}
	cfg.ExposeHeaders = []string{"X-Request-ID", "X-Cache", "Content-Disposition"}
	cfg.MaxAge = 12 * time.Hour
	for _, o := range sm.config.AllowedOrigins {
		o = strings.TrimSpace(o)
		switch {
		case o == "*":
			cfg.AllowAllOrigins = true
		case strings.HasPrefix(o, "http://") || strings.HasPrefix(o, "https://"):
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if cfg.AllowAllOrigins {
		cfg.AllowOrigins = nil
	} else if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOriginFunc = func(string) bool { return false }
	}
	return cors.New(cfg)
}

// Cleanup drops limiters for IPs idle longer than maxIdle, checking every interval.
func (sm *SecurityMiddleware) Cleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sm.cleanupOldLimiters(maxIdle)
			}
		}
	}()
}

func (sm *SecurityMiddleware) cleanupOldLimiters(maxIdle time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for ip, entry := range sm.ipLimiters {
		if entry.lastSeen.Before(cutoff) {
			delete(sm.ipLimiters, ip)
			removed++
		}
	}
	return removed
}
