package frontend

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/court-compare/internal/security"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	files, err := GetDistFS()
	require.NoError(t, err)
	h, err := NewHandler(files, "/api/v1")
	require.NoError(t, err)

	sm := security.NewSecurityMiddleware(security.DefaultSecurityConfig(), nil)
	r := gin.New()
	r.Use(sm.CSPMiddleware)
	h.Register(r)
	return r
}

func TestInjectNonce(t *testing.T) {
	in := `<link rel="stylesheet" href="/a.css"><link rel="icon" href="/i.png"><script src="/a.js"></script>`
	out := injectNonce(in)

	assert.Contains(t, out, `<link nonce="{{.Nonce}}" rel="stylesheet" href="/a.css">`)
	assert.Contains(t, out, `<link rel="icon" href="/i.png">`)
	assert.Contains(t, out, `<script nonce="{{.Nonce}}" src="/a.js">`)
}

func TestLoadIndexTemplateMissing(t *testing.T) {
	_, err := LoadIndexTemplate(fstest.MapFS{})
	assert.Error(t, err)
}

func TestIndexCarriesRequestNonce(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	assert.Contains(t, body, DefaultTitle)
	assert.Contains(t, body, `data-api="/api/v1"`)
	assert.Contains(t, body, "cdn.plot.ly")

	m := regexp.MustCompile(`<script nonce="([^"]+)"`).FindStringSubmatch(body)
	require.Len(t, m, 2)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-"+m[1]+"'")
}

func TestAssetsAndFallback(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantType   string
	}{
		{"script", "/assets/dashboard.js", http.StatusOK, "javascript"},
		{"stylesheet", "/assets/dashboard.css", http.StatusOK, "text/css"},
		{"missing asset", "/assets/nope.js", http.StatusNotFound, "application/json"},
		{"client route", "/compare", http.StatusOK, "text/html"},
		{"unknown api route", "/api/v1/nope", http.StatusNotFound, "application/json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.wantType)
		})
	}
}
