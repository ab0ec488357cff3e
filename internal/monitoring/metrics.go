package monitoring

import (
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// latencyWindow is the number of recent response times kept for percentiles.
const latencyWindow = 1024

// RouteStats counts traffic for one route pattern, e.g. "GET /api/v1/teams/:team/roster".
type RouteStats struct {
	Requests int64   `json:"requests"`
	Errors   int64   `json:"errors"`
	TotalMs  float64 `json:"total_ms"`
}

// Metrics collects process-wide counters for the comparison service.
type Metrics struct {
	requests    atomic.Int64
	errors      atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	rateBlocks  atomic.Int64

	teamComparisons   atomic.Int64
	playerComparisons atomic.Int64
	playersNotFound   atomic.Int64
	warnings          atomic.Int64
	chartsRendered    atomic.Int64
	exports           atomic.Int64

	mu        sync.Mutex
	started   time.Time
	latencies [latencyWindow]time.Duration
	next      int
	filled    int
	latSum    time.Duration
	byStatus  map[int]int64
	byRoute   map[string]*RouteStats
}

func NewMetrics() *Metrics {
	return &Metrics{
		started:  time.Now(),
		byStatus: make(map[int]int64),
		byRoute:  make(map[string]*RouteStats),
	}
}

func (m *Metrics) IncrementRequest()          { m.requests.Add(1) }
func (m *Metrics) IncrementError()            { m.errors.Add(1) }
func (m *Metrics) IncrementCacheHit()         { m.cacheHits.Add(1) }
func (m *Metrics) IncrementCacheMiss()        { m.cacheMisses.Add(1) }
func (m *Metrics) IncrementRateLimitIPBlock() { m.rateBlocks.Add(1) }
func (m *Metrics) IncrementChartRendered()    { m.chartsRendered.Add(1) }
func (m *Metrics) IncrementExport()           { m.exports.Add(1) }
func (m *Metrics) IncrementPlayerNotFound()   { m.playersNotFound.Add(1) }

// RecordComparison counts a built comparison by kind ("team" or "player")
// together with the warnings it carried.
func (m *Metrics) RecordComparison(kind string, warnings int) {
	switch kind {
	case "team":
		m.teamComparisons.Add(1)
	case "player":
		m.playerComparisons.Add(1)
	}
	m.warnings.Add(int64(warnings))
}

// RecordResponseTime adds d to the latency window, evicting the oldest sample
// once the window is full.
func (m *Metrics) RecordResponseTime(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.filled == latencyWindow {
		m.latSum -= m.latencies[m.next]
	} else {
		m.filled++
	}
	m.latencies[m.next] = d
	m.latSum += d
	m.next = (m.next + 1) % latencyWindow
}

func (m *Metrics) RecordRequestByStatus(statusCode int) {
	m.mu.Lock()
	m.byStatus[statusCode]++
	m.mu.Unlock()
}

// RecordRoute attributes one request to its route pattern. Unmatched paths
// are grouped under the method alone.
func (m *Metrics) RecordRoute(method, route string, statusCode int, d time.Duration) {
	key := method
	if route != "" {
		key = method + " " + route
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rs, ok := m.byRoute[key]
	if !ok {
		rs = &RouteStats{}
		m.byRoute[key] = rs
	}
	rs.Requests++
	if statusCode >= 400 {
		rs.Errors++
	}
	rs.TotalMs += float64(d) / float64(time.Millisecond)
}

// GetPercentileResponseTime returns the nearest-rank percentile of the
// latency window, or 0 when it is empty.
func (m *Metrics) GetPercentileResponseTime(percentile float64) time.Duration {
	m.mu.Lock()
	samples := append([]time.Duration(nil), m.latencies[:m.filled]...)
	m.mu.Unlock()

	if len(samples) == 0 {
		return 0
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })

	idx := int(float64(len(samples)-1) * percentile / 100)
	if idx >= len(samples) {
		idx = len(samples) - 1
	}
	return samples[idx]
}

func (m *Metrics) GetStatusCodeDistribution() map[int]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]int64, len(m.byStatus))
	for code, n := range m.byStatus {
		out[code] = n
	}
	return out
}

// GetRouteStats returns a copy of the per-route counters.
func (m *Metrics) GetRouteStats() map[string]RouteStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RouteStats, len(m.byRoute))
	for k, v := range m.byRoute {
		out[k] = *v
	}
	return out
}

func (m *Metrics) averageResponseTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.filled == 0 {
		return 0
	}
	return m.latSum / time.Duration(m.filled)
}

func percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// GetStats returns a snapshot for the /metrics endpoint.
func (m *Metrics) GetStats() map[string]interface{} {
	requests := m.requests.Load()
	errors := m.errors.Load()
	hits, misses := m.cacheHits.Load(), m.cacheMisses.Load()

	m.mu.Lock()
	started := m.started
	m.mu.Unlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return map[string]interface{}{
		"start_time":     started.Format(time.RFC3339),
		"uptime_seconds": time.Since(started).Seconds(),

		"total_requests":           requests,
		"error_count":              errors,
		"error_rate_percent":       percent(errors, requests),
		"status_code_distribution": m.GetStatusCodeDistribution(),
		"routes":                   m.GetRouteStats(),

		"avg_response_time_ms": millis(m.averageResponseTime()),
		"p50_response_time_ms": millis(m.GetPercentileResponseTime(50)),
		"p95_response_time_ms": millis(m.GetPercentileResponseTime(95)),
		"p99_response_time_ms": millis(m.GetPercentileResponseTime(99)),

		"cache_hits":             hits,
		"cache_misses":           misses,
		"cache_hit_rate_percent": percent(hits, hits+misses),
		"rate_limit_blocks":      m.rateBlocks.Load(),

		"team_comparisons":    m.teamComparisons.Load(),
		"player_comparisons":  m.playerComparisons.Load(),
		"players_not_found":   m.playersNotFound.Load(),
		"comparison_warnings": m.warnings.Load(),
		"charts_rendered":     m.chartsRendered.Load(),
		"exports":             m.exports.Load(),

		"go_goroutines":       runtime.NumGoroutine(),
		"go_gc_count":         mem.NumGC,
		"go_heap_alloc_bytes": mem.HeapAlloc,
	}
}

// Reset zeroes every counter and restarts the uptime clock.
func (m *Metrics) Reset() {
	for _, c := range []*atomic.Int64{
		&m.requests, &m.errors, &m.cacheHits, &m.cacheMisses, &m.rateBlocks,
		&m.teamComparisons, &m.playerComparisons, &m.playersNotFound,
		&m.warnings, &m.chartsRendered, &m.exports,
	} {
		c.Store(0)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = time.Now()
	m.next, m.filled, m.latSum = 0, 0, 0
	m.byStatus = make(map[int]int64)
	m.byRoute = make(map[string]*RouteStats)
}
