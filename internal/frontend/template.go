package frontend

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
)

var (
	scriptTagRegex = regexp.MustCompile(`<script([^>]*)>`)
	styleTagRegex  = regexp.MustCompile(`<link([^>]*rel=["']stylesheet["'][^>]*)>`)
)

// PageData fills the dashboard page template.
type PageData struct {
	Nonce   string
	Title   string
	APIBase string
}

// LoadIndexTemplate parses index.html from fsys with a nonce attribute added
// to every script and stylesheet tag.
func LoadIndexTemplate(fsys fs.FS) (*template.Template, error) {
	raw, err := fs.ReadFile(fsys, "index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read index.html: %w", err)
	}

	tmpl, err := template.New("index").Parse(injectNonce(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

func injectNonce(html string) string {
	html = scriptTagRegex.ReplaceAllString(html, `<script nonce="{{.Nonce}}"$1>`)
	return styleTagRegex.ReplaceAllString(html, `<link nonce="{{.Nonce}}"$1>`)
}

// RenderIndex writes the page. It is never cached because the nonce changes
// on every request.
func RenderIndex(c *gin.Context, tmpl *template.Template, data PageData) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	return nil
}
