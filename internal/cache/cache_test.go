package cache

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	hits, misses int64
}

func (m *countingMetrics) IncrementCacheHit()  { atomic.AddInt64(&m.hits, 1) }
func (m *countingMetrics) IncrementCacheMiss() { atomic.AddInt64(&m.misses, 1) }

func TestCacheGetSet(t *testing.T) {
	c := NewCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", []byte("v"), "text/plain")
	item, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), item.Data)
	assert.Equal(t, "text/plain", item.ContentType)
	assert.Equal(t, 1, c.Size())

	c.Delete("k")
	assert.Equal(t, 0, c.Size())

	c.Set("a", nil, "")
	c.Set("b", nil, "")
	assert.Equal(t, 2, c.Clear())
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, 0, c.Clear())
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(10 * time.Millisecond)
	defer c.Close()

	c.Set("k", []byte("v"), "")
	time.Sleep(20 * time.Millisecond)

	stats := c.Stats()
	assert.Equal(t, 1, stats["expired_items"])

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCacheMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewCache(time.Minute)
	defer c.Close()
	metrics := &countingMetrics{}

	var calls int32
	r := gin.New()
	r.GET("/teams", c.Middleware(metrics), func(ctx *gin.Context) {
		atomic.AddInt32(&calls, 1)
		ctx.JSON(http.StatusOK, gin.H{"teams": []string{"A", "B"}})
	})
	r.GET("/missing", c.Middleware(metrics), func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"teams":["A","B"]}`, w.Body.String())
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, int64(2), metrics.hits)
	assert.Equal(t, int64(1), metrics.misses)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teams?x=1", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	assert.Equal(t, 2, c.Size())
}

func TestKeyNormalizesQuery(t *testing.T) {
	a := httptest.NewRequest(http.MethodGet, "/api/v1/teams/GSW/roster/chart?format=png&v=1", nil)
	b := httptest.NewRequest(http.MethodGet, "/api/v1/teams/GSW/roster/chart?v=1&format=png", nil)
	assert.Equal(t, Key(a), Key(b))
	assert.Equal(t, "GET /api/v1/teams/GSW/roster/chart?format=png&v=1", Key(a))

	plain := httptest.NewRequest(http.MethodGet, "/api/v1/teams", nil)
	assert.Equal(t, "GET /api/v1/teams", Key(plain))
}

func TestBoundedCacheEvictsOldest(t *testing.T) {
	c := NewBoundedCache(time.Minute, 2)
	defer c.Close()

	c.Set("a", []byte("1"), "")
	time.Sleep(time.Millisecond)
	c.Set("b", []byte("2"), "")
	time.Sleep(time.Millisecond)
	c.Set("c", []byte("3"), "")

	assert.Equal(t, 2, c.Size())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats()["evicted_items"])

	c.Set("c", []byte("33"), "")
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, int64(1), c.Stats()["evicted_items"])
}
