package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/court-compare/internal/errors"
)

const nonceKey = "csp-nonce"

// PlotlyCDN hosts the charting library the dashboard page loads.
const PlotlyCDN = "https://cdn.plot.ly"

const nonceBytes = 18

// GenerateNonce returns a random base64 value for one response.
func GenerateNonce() (string, error) {
	b := make([]byte, nonceBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// CSPMiddleware stores a fresh nonce on the context and sends the matching
// policy. With CSPReportURI set the policy is also sent in report-only form.
func (sm *SecurityMiddleware) CSPMiddleware(c *gin.Context) {
	nonce, err := GenerateNonce()
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("nonce generation failed", err))
		return
	}
	c.Set(nonceKey, nonce)

	policy := buildCSPPolicy(nonce)
	c.Header("Content-Security-Policy", policy)
	if sm.config.CSPReportURI != "" {
		c.Header("Content-Security-Policy-Report-Only", policy+"; report-uri "+sm.config.CSPReportURI)
	}
	c.Next()
}

// GetNonce returns the nonce CSPMiddleware stored, or "".
func GetNonce(c *gin.Context) string {
	return c.GetString(nonceKey)
}

// buildCSPPolicy allows the dashboard's own scripts by nonce plus the Plotly
// bundle. Plotly writes inline styles, so style-src has no nonce: a nonce
// there would switch 'unsafe-inline' off. Roster charts load as data or blob
// images.
func buildCSPPolicy(nonce string) string {
	directives := [][]string{
		{"default-src", "'self'"},
		{"script-src", "'self'", "'nonce-" + nonce + "'", PlotlyCDN},
		{"style-src", "'self'", "'unsafe-inline'"},
		{"img-src", "'self'", "data:", "blob:"},
		{"font-src", "'self'", "data:"},
		{"connect-src", "'self'"},
		{"frame-ancestors", "'none'"},
		{"base-uri", "'self'"},
		{"form-action", "'self'"},
	}
	parts := make([]string, len(directives))
	for i, d := range directives {
		parts[i] = strings.Join(d, " ")
	}
	return strings.Join(parts, "; ")
}
