package monitoring

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog with one helper per event the service emits.
type Logger struct {
	*slog.Logger
	started time.Time
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a JSON logger on stdout.
func NewLogger(level slog.Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a JSON logger writing to w. Timestamps are RFC3339 under
// "timestamp"; source locations are only added at debug level.
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("timestamp", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	return &Logger{
		Logger:  slog.New(slog.NewJSONHandler(w, opts)).With("service", "court-compare"),
		started: time.Now(),
	}
}

// RequestLogger logs one served HTTP request. 5xx responses are logged at
// error level and 4xx at warn.
func (l *Logger) RequestLogger(method, path, ip, userAgent, requestID string, statusCode int, duration time.Duration) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	l.LogAttrs(context.Background(), level, "HTTP Request",
		slog.String("request_id", requestID),
		slog.Group("http",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status_code", statusCode),
			slog.Int64("duration_ms", duration.Milliseconds()),
		),
		slog.Group("client",
			slog.String("ip", ip),
			slog.String("user_agent", userAgent),
		),
	)
}

// DatasetLogger logs a completed dataset load.
func (l *Logger) DatasetLogger(source string, rows, teams, stats int, duration time.Duration) {
	l.Info("Dataset Loaded",
		"source", source,
		"rows", rows,
		"teams", teams,
		"numeric_columns", stats,
		"duration_ms", duration.Milliseconds(),
	)
}

// ComparisonLogger logs a comparison; one with soft warnings is logged at warn.
func (l *Logger) ComparisonLogger(kind, a, b string, axes, warnings int, duration time.Duration) {
	level := slog.LevelInfo
	if warnings > 0 {
		level = slog.LevelWarn
	}
	l.Log(context.Background(), level, "Comparison Built",
		"kind", kind,
		"a", a,
		"b", b,
		"axes", axes,
		"warnings", warnings,
		"duration_ms", duration.Milliseconds(),
	)
}

func (l *Logger) APIErrorLogger(err error, method, path, ip string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
	)
}

func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(l.started).Round(time.Second).String(),
	)
}

// SecurityLogger logs a suspicious request. details keys are flattened into
// the record.
func (l *Logger) SecurityLogger(event, ip, userAgent string, details map[string]interface{}) {
	attrs := make([]any, 0, 6+2*len(details))
	attrs = append(attrs, "event", event, "ip", ip, "user_agent", userAgent)
	for k, v := range details {
		attrs = append(attrs, k, v)
	}
	l.Warn("Security Event", attrs...)
}

func (l *Logger) PerformanceLogger(metric string, value float64, unit string) {
	l.Warn("Performance Metric", "metric", metric, "value", value, "unit", unit)
}
