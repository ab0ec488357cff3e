package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

// CompressionConfig holds configuration for response compression
type CompressionConfig struct {
	MinSize          int      // Minimum response size to compress (bytes)
	CompressionLevel int      // Gzip compression level (1-9)
	ContentTypes     []string // Content types to compress
}

// DefaultCompressionConfig compresses the text payloads the dashboard serves.
// PNG charts and XLSX exports are already compressed and pass through.
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize:          1024,
		CompressionLevel: gzip.DefaultCompression,
		ContentTypes: []string{
			"application/json",
			"image/svg+xml",
			"text/plain",
			"text/html",
			"text/css",
			"application/javascript",
			"text/javascript",
		},
	}
}

// CompressionMiddleware provides gzip compression for HTTP responses
type CompressionMiddleware struct {
	config CompressionConfig
	stats  *CompressionStats
	pool   sync.Pool
}

func NewCompressionMiddleware(config CompressionConfig) *CompressionMiddleware {
	level := config.CompressionLevel
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &CompressionMiddleware{
		config: config,
		stats:  &CompressionStats{},
		pool: sync.Pool{
			New: func() interface{} {
				gz, _ := gzip.NewWriterLevel(io.Discard, level)
				return gz
			},
		},
	}
}

// Handler wraps the response writer so that eligible bodies are gzipped.
// Eligibility is decided on the first write, once the handler has set the
// content type.
func (cm *CompressionMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !clientAcceptsGzip(c.Request) {
			c.Next()
			return
		}

		gzw := &gzipResponseWriter{ResponseWriter: c.Writer, cm: cm}
		c.Writer = gzw
		defer gzw.finish()

		c.Next()
	}
}

func clientAcceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

func (cm *CompressionMiddleware) shouldCompress(contentType string) bool {
	for _, ct := range cm.config.ContentTypes {
		if strings.Contains(contentType, ct) {
			return true
		}
	}
	return false
}

func (cm *CompressionMiddleware) getGzipWriter(w io.Writer) *gzip.Writer {
	gz := cm.pool.Get().(*gzip.Writer)
	gz.Reset(w)
	return gz
}

func (cm *CompressionMiddleware) returnGzipWriter(gz *gzip.Writer) {
	gz.Reset(io.Discard)
	cm.pool.Put(gz)
}

// GetStats returns compression statistics
func (cm *CompressionMiddleware) GetStats() map[string]interface{} {
	return cm.stats.GetStats()
}

// gzipResponseWriter decides on its first write whether to compress.
type gzipResponseWriter struct {
	gin.ResponseWriter
	cm       *CompressionMiddleware
	gz       *gzip.Writer
	decided  bool
	original int64
}

func (w *gzipResponseWriter) decide(first []byte) {
	w.decided = true
	h := w.ResponseWriter.Header()
	if h.Get("Content-Encoding") != "" || len(first) < w.cm.config.MinSize || !w.cm.shouldCompress(h.Get("Content-Type")) {
		return
	}
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")
	w.gz = w.cm.getGzipWriter(w.ResponseWriter)
}

func (w *gzipResponseWriter) Write(data []byte) (int, error) {
	if !w.decided {
		w.decide(data)
	}
	w.original += int64(len(data))
	if w.gz == nil {
		return w.ResponseWriter.Write(data)
	}
	return w.gz.Write(data)
}

func (w *gzipResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipResponseWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipResponseWriter) finish() {
	if w.gz == nil {
		if w.decided {
			w.cm.stats.RecordRequest(w.original, w.original, false)
		}
		return
	}
	_ = w.gz.Close()
	w.cm.returnGzipWriter(w.gz)
	w.gz = nil
	w.cm.stats.RecordRequest(w.original, int64(w.ResponseWriter.Size()), true)
}

// CompressionStats counts bytes before and after the middleware. Responses
// that were not compressed count the same on both sides.
type CompressionStats struct {
	requests   atomic.Int64
	compressed atomic.Int64
	bytesIn    atomic.Int64
	bytesOut   atomic.Int64
}

func (cs *CompressionStats) RecordRequest(originalSize, writtenSize int64, compressed bool) {
	cs.requests.Add(1)
	cs.bytesIn.Add(originalSize)
	if compressed {
		cs.compressed.Add(1)
		cs.bytesOut.Add(writtenSize)
		return
	}
	cs.bytesOut.Add(originalSize)
}

func (cs *CompressionStats) GetStats() map[string]interface{} {
	in, out := cs.bytesIn.Load(), cs.bytesOut.Load()
	ratio := 1.0
	if in > 0 {
		ratio = float64(out) / float64(in)
	}
	return map[string]interface{}{
		"total_requests":      cs.requests.Load(),
		"compressed_requests": cs.compressed.Load(),
		"total_bytes":         in,
		"compressed_bytes":    out,
		"compression_ratio":   ratio,
		"compression_savings": 1 - ratio,
	}
}
