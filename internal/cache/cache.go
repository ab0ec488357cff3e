package cache

import (
	"bytes"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// DefaultMaxItems bounds the number of cached responses.
const DefaultMaxItems = 512

// Metrics receives cache hit and miss counts.
type Metrics interface {
	IncrementCacheHit()
	IncrementCacheMiss()
}

// CacheItem is one stored response body.
type CacheItem struct {
	Data        []byte
	ContentType string
	StoredAt    time.Time
	ExpiresAt   time.Time
}

func (c *CacheItem) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Cache holds listing responses for a fixed TTL. When full, the oldest entry
// is evicted.
type Cache struct {
	mu       sync.RWMutex
	items    map[string]*CacheItem
	ttl      time.Duration
	maxItems int
	evicted  int64
	stop     chan struct{}
	once     sync.Once
}

// NewCache starts a cache with DefaultMaxItems entries.
func NewCache(ttl time.Duration) *Cache {
	return NewBoundedCache(ttl, DefaultMaxItems)
}

func NewBoundedCache(ttl time.Duration, maxItems int) *Cache {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	c := &Cache{
		items:    make(map[string]*CacheItem),
		ttl:      ttl,
		maxItems: maxItems,
		stop:     make(chan struct{}),
	}
	go c.sweep(sweepInterval(ttl))
	return c
}

func sweepInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > 5*time.Minute {
		return 5 * time.Minute
	}
	return ttl
}

func (c *Cache) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			for key, item := range c.items {
				if item.IsExpired() {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Close stops the sweeper.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// Key builds the cache key for a request. Query parameters are sorted so
// equivalent URLs share one entry.
func Key(r *http.Request) string {
	key := r.Method + " " + r.URL.EscapedPath()
	if q := r.URL.Query(); len(q) > 0 {
		key += "?" + q.Encode()
	}
	return key
}

func (c *Cache) Get(key string) (*CacheItem, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if item.IsExpired() {
		c.Delete(key)
		return nil, false
	}
	return item, true
}

func (c *Cache) Set(key string, data []byte, contentType string) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldestLocked()
	}
	c.items[key] = &CacheItem{
		Data:        data,
		ContentType: contentType,
		StoredAt:    now,
		ExpiresAt:   now.Add(c.ttl),
	}
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	for k, item := range c.items {
		if oldestKey == "" || item.StoredAt.Before(oldest) {
			oldestKey, oldest = k, item.StoredAt
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
		c.evicted++
	}
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear drops every entry and reports how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	n := len(c.items)
	c.items = make(map[string]*CacheItem)
	c.mu.Unlock()
	return n
}

func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Stats backs the /cache/stats endpoint.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	expired, bytesHeld := 0, 0
	for _, item := range c.items {
		if item.IsExpired() {
			expired++
		}
		bytesHeld += len(item.Data)
	}
	return map[string]interface{}{
		"total_items":   len(c.items),
		"expired_items": expired,
		"active_items":  len(c.items) - expired,
		"max_items":     c.maxItems,
		"evicted_items": c.evicted,
		"bytes":         bytesHeld,
		"ttl_seconds":   c.ttl.Seconds(),
	}
}

// Middleware serves and stores 200 responses to GET requests. Attach it only
// to routes whose output depends on nothing but the URL.
func (c *Cache) Middleware(metrics Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet {
			ctx.Next()
			return
		}

		key := Key(ctx.Request)
		if item, ok := c.Get(key); ok {
			slog.Debug("Cache hit", "key", key)
			metrics.IncrementCacheHit()
			ctx.Header("X-Cache", "HIT")
			ctx.Data(http.StatusOK, item.ContentType, item.Data)
			ctx.Abort()
			return
		}

		metrics.IncrementCacheMiss()
		ctx.Header("X-Cache", "MISS")

		rec := &recordingWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = rec
		ctx.Next()

		if rec.Status() == http.StatusOK {
			c.Set(key, rec.body.Bytes(), rec.Header().Get("Content-Type"))
		}
	}
}

// recordingWriter copies the response body while passing it through.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
